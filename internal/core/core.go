// Package core implements the application operations: every user
// action funnels through here and follows the same local-first shape.
// Write the local cache, then best-effort sync to the backend, never
// failing the action because the network did.
package core

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"resolvex/internal/api"
	"resolvex/internal/complaint"
	apperrors "resolvex/internal/errors"
	"resolvex/internal/notify"
	"resolvex/internal/store"
)

// Core wires the local cache, the backend client and the optional
// notifier together. Construct one per application instance.
type Core struct {
	store    *store.Store
	client   *api.Client
	notifier *notify.Client
}

// New creates a Core. The notifier may be nil, which disables
// notifications; the client must not be nil.
func New(st *store.Store, client *api.Client, notifier *notify.Client) *Core {
	return &Core{store: st, client: client, notifier: notifier}
}

// Store exposes the underlying cache for read-only page rendering.
func (c *Core) Store() *store.Store {
	return c.store
}

// Submit records a new complaint.
//
// The complaint gets the next sequential id, status Submitted, no
// rating and today's date. Name, email and description must be
// non-empty after trimming; an unknown category lands in Other.
func (c *Core) Submit(ctx context.Context, name, email, category, description string) (complaint.Complaint, error) {
	nc := complaint.Complaint{
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Category:    complaint.CoerceCategory(category),
		Description: strings.TrimSpace(description),
		Status:      complaint.StatusSubmitted,
		CreatedAt:   time.Now().Format("2006-01-02"),
	}
	if nc.Name == "" || nc.Email == "" || nc.Description == "" {
		return complaint.Complaint{}, apperrors.NewValidationError("name, email and description are required")
	}

	rows := c.store.Complaints()
	nc.ID = complaint.NextID(rows)
	rows = append(rows, nc)

	if err := c.store.SaveComplaints(rows); err != nil {
		return complaint.Complaint{}, err
	}
	c.client.SaveComplaints(ctx, rows)

	if err := c.notifier.NotifyNewComplaint(nc); err != nil {
		log.Printf("⚠️  Notification for %s failed: %v", nc.ID, err)
	}
	return nc, nil
}

// SetStatus moves a complaint to a new lifecycle state. An existing
// rating survives the transition.
func (c *Core) SetStatus(ctx context.Context, id string, status string) (complaint.Complaint, error) {
	st := complaint.Status(status)
	if !st.Valid() {
		return complaint.Complaint{}, apperrors.NewValidationError("unknown status: " + status)
	}

	rows := c.store.Complaints()
	i := indexOf(rows, id)
	if i < 0 {
		return complaint.Complaint{}, apperrors.NewNotFoundError("complaint", id)
	}

	rows[i].Status = st
	if err := c.store.SaveComplaints(rows); err != nil {
		return complaint.Complaint{}, err
	}
	c.client.SaveComplaints(ctx, rows)
	return rows[i], nil
}

// Rate records a one-time customer rating on a resolved complaint.
func (c *Core) Rate(ctx context.Context, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}

	rows := c.store.Complaints()
	i := indexOf(rows, id)
	if i < 0 {
		return apperrors.NewNotFoundError("complaint", id)
	}
	if rows[i].Status != complaint.StatusResolved {
		return apperrors.NewValidationError("only resolved complaints can be rated")
	}
	if rows[i].Rated() {
		return apperrors.NewValidationError("complaint already rated")
	}

	rows[i].Rating = &rating
	if err := c.store.SaveComplaints(rows); err != nil {
		return err
	}
	c.client.SaveComplaints(ctx, rows)
	return nil
}

// Delete removes a complaint. An unknown id is a no-op: removed is
// false and no write happens.
func (c *Core) Delete(ctx context.Context, id string) (removed bool, err error) {
	rows := c.store.Complaints()
	i := indexOf(rows, id)
	if i < 0 {
		return false, nil
	}

	rows = append(rows[:i], rows[i+1:]...)
	if err := c.store.SaveComplaints(rows); err != nil {
		return false, err
	}
	c.client.SaveComplaints(ctx, rows)
	return true, nil
}

// RecordAB counts one interaction with a submit-button variant,
// "a" or "b".
func (c *Core) RecordAB(ctx context.Context, variant string) error {
	ab := c.store.AB()
	switch strings.ToLower(variant) {
	case "a":
		ab.A++
	case "b":
		ab.B++
	default:
		return apperrors.NewValidationError("unknown variant: " + variant)
	}

	if err := c.store.SaveAB(ab); err != nil {
		return err
	}
	c.client.SaveAB(ctx, ab)
	return nil
}

// UpdateSettings overlays a partial settings change and persists the
// merged result.
func (c *Core) UpdateSettings(ctx context.Context, patch complaint.SettingsPatch) (complaint.Settings, error) {
	current := c.store.Settings()

	merged := current
	if patch.Theme != nil && (*patch.Theme == complaint.ThemeLight || *patch.Theme == complaint.ThemeDark) {
		merged.Theme = *patch.Theme
	}
	if patch.CompactMode != nil {
		merged.CompactMode = *patch.CompactMode
	}
	if patch.ToastEnabled != nil {
		merged.ToastEnabled = *patch.ToastEnabled
	}
	if patch.AutoPromptFeedback != nil {
		merged.AutoPromptFeedback = *patch.AutoPromptFeedback
	}

	if err := c.store.SaveSettings(merged); err != nil {
		return current, err
	}
	c.client.SaveSettings(ctx, merged)
	return merged, nil
}

// ExportCSV renders the complaint collection as a CSV document.
func (c *Core) ExportCSV() string {
	return complaint.ToCSV(c.store.Complaints())
}

// ExportSnapshot serializes the full local state as an indented JSON
// backup.
func (c *Core) ExportSnapshot() ([]byte, error) {
	return json.MarshalIndent(c.store.Snapshot(), "", "  ")
}

// importPayload mirrors Snapshot with optional sections, so a backup
// missing the complaints array is detectable instead of silently
// decoding to nil.
type importPayload struct {
	Complaints *[]complaint.Complaint   `json:"complaints"`
	AB         *complaint.AbStats       `json:"ab"`
	Settings   *complaint.SettingsPatch `json:"settings"`
}

// ImportSnapshot replaces the local state with a backup file.
//
// The payload must be a JSON object with a complaints array; anything
// else is rejected with a validation error and the stored state stays
// untouched. A/B counters default to zero and settings fall back to
// the current stored values when the backup omits them.
func (c *Core) ImportSnapshot(ctx context.Context, data []byte) error {
	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return apperrors.NewValidationError("invalid backup file: " + err.Error())
	}
	if payload.Complaints == nil {
		return apperrors.NewValidationError("backup file has no complaints array")
	}

	snap := complaint.Snapshot{
		Complaints: complaint.NormalizeAll(*payload.Complaints),
		Settings:   c.store.Settings(),
	}
	if payload.AB != nil {
		snap.AB = *payload.AB
	}
	if payload.Settings != nil {
		snap.Settings = complaint.MergeSettings(*payload.Settings)
	}

	if err := c.store.ApplySnapshot(snap); err != nil {
		return err
	}
	c.client.PushSnapshot(ctx, snap)
	return nil
}

// ClearData empties the complaint collection and A/B counters locally
// and on the backend. Settings survive.
func (c *Core) ClearData(ctx context.Context) error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	c.client.PushSnapshot(ctx, c.store.Snapshot())
	return nil
}

// PushToBackend uploads the full local state. The cached reachability
// verdict is dropped first so an explicit user retry really probes.
func (c *Core) PushToBackend(ctx context.Context) bool {
	c.client.Invalidate()
	return c.client.PushSnapshot(ctx, c.store.Snapshot())
}

// PullFromBackend downloads the backend state and replaces the local
// cache with it. A pull without a complaints array is discarded.
func (c *Core) PullFromBackend(ctx context.Context) bool {
	c.client.Invalidate()
	snap, ok := c.client.PullSnapshot(ctx)
	if !ok {
		return false
	}
	if snap.Complaints == nil {
		log.Println("⚠️  Pulled snapshot has no complaints array, keeping local state")
		return false
	}
	if err := c.store.ApplySnapshot(*snap); err != nil {
		log.Printf("⚠️  Applying pulled snapshot failed: %v", err)
		return false
	}
	return true
}

// Synced reports whether the backend is currently considered
// reachable, from the cached probe verdict.
func (c *Core) Synced(ctx context.Context) bool {
	return c.client.CanReachBackend(ctx)
}

func indexOf(rows []complaint.Complaint, id string) int {
	for i, row := range rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}
