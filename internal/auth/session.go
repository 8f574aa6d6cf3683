// Package auth keeps the session-scoped authenticated-user record.
//
// This is demo-grade authentication carried over from the product
// mockup: one shared password, no user database. The session holds
// the signed-in user and the landing-page flag for the lifetime of
// the process.
package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "resolvex/internal/errors"
)

// DemoPassword is the shared demo credential.
const DemoPassword = "admin123"

// demoPasswordHash is computed once at startup so Login always goes
// through a real bcrypt comparison.
var demoPasswordHash []byte

func init() {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		panic("auth: generating demo password hash: " + err.Error())
	}
	demoPasswordHash = hash
}

// User is the authenticated-user record kept for the session.
type User struct {
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	LoginAt time.Time `json:"loginAt"`
}

// Session holds per-session state: the signed-in user and whether the
// landing page has been shown. Construct one per session; there is no
// package-level singleton.
type Session struct {
	mu          sync.Mutex
	user        *User
	landingSeen bool
}

// NewSession creates an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Login verifies the password and records the user on the session.
func (s *Session) Login(name, email, password string) (*User, error) {
	if err := bcrypt.CompareHashAndPassword(demoPasswordHash, []byte(strings.TrimSpace(password))); err != nil {
		return nil, apperrors.NewValidationError("invalid password")
	}

	user := &User{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		LoginAt: time.Now(),
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// User returns the signed-in user, or false when nobody is signed in.
func (s *Session) User() (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, false
	}
	return s.user, true
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// MarkLandingSeen records that the landing page was shown this session.
func (s *Session) MarkLandingSeen() {
	s.mu.Lock()
	s.landingSeen = true
	s.mu.Unlock()
}

// LandingSeen reports whether the landing page was already shown.
func (s *Session) LandingSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.landingSeen
}
