package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvex/internal/api"
	"resolvex/internal/complaint"
	apperrors "resolvex/internal/errors"
	"resolvex/internal/store"
)

func intPtr(n int) *int { return &n }

// fakeBackend records what the core pushed to it.
type fakeBackend struct {
	mu       sync.Mutex
	snapshot complaint.Snapshot
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	mux.HandleFunc("/db", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(b.snapshot)
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&b.snapshot)
		}
	})
	mux.HandleFunc("/complaints/sync", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewDecoder(r.Body).Decode(&b.snapshot.Complaints)
	})
	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewDecoder(r.Body).Decode(&b.snapshot.Settings)
	})
	mux.HandleFunc("/ab_stats", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewDecoder(r.Body).Decode(&b.snapshot.AB)
	})
	return mux
}

// newTestCore builds a core over a temp cache and a live fake backend.
func newTestCore(t *testing.T) (*Core, *store.Store, *fakeBackend) {
	t.Helper()

	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, 2*time.Second)
	return New(st, client, nil), st, backend
}

// newOfflineCore builds a core whose backend is unreachable.
func newOfflineCore(t *testing.T) (*Core, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := api.New(srv.URL, 500*time.Millisecond)
	return New(st, client, nil), st
}

func TestSubmit(t *testing.T) {
	c, st, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{
		{ID: "CMP001"}, {ID: "CMP007"},
	}))

	got, err := c.Submit(ctx, "  Aarav Shah ", "aarav@example.com", "Billing", "Charged twice")
	require.NoError(t, err)

	assert.Equal(t, "CMP008", got.ID, "id continues from the highest existing number")
	assert.Equal(t, "Aarav Shah", got.Name, "whitespace is trimmed")
	assert.Equal(t, complaint.StatusSubmitted, got.Status)
	assert.Nil(t, got.Rating, "a new complaint starts unrated")
	assert.Equal(t, time.Now().Format("2006-01-02"), got.CreatedAt)

	rows := st.Complaints()
	assert.Len(t, rows, 3)
	assert.Equal(t, "CMP008", rows[2].ID)
}

func TestSubmit_UnknownCategoryLandsInOther(t *testing.T) {
	c, _, _ := newTestCore(t)

	got, err := c.Submit(context.Background(), "Dev", "dev@example.com", "Weather", "desc")
	require.NoError(t, err)
	assert.Equal(t, complaint.CategoryOther, got.Category)
}

func TestSubmit_RequiredFields(t *testing.T) {
	c, st, _ := newTestCore(t)

	_, err := c.Submit(context.Background(), "   ", "dev@example.com", "Billing", "desc")
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, st.Complaints(), "a rejected submit writes nothing")
}

func TestSubmit_WorksOffline(t *testing.T) {
	c, st := newOfflineCore(t)

	_, err := c.Submit(context.Background(), "Dev", "dev@example.com", "Billing", "desc")
	require.NoError(t, err, "an unreachable backend never fails a submit")
	assert.Len(t, st.Complaints(), 1)
}

func TestSetStatus(t *testing.T) {
	c, st, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{
		{ID: "CMP001", Status: complaint.StatusResolved, Rating: intPtr(4)},
	}))

	got, err := c.SetStatus(ctx, "CMP001", "In Review")
	require.NoError(t, err)
	assert.Equal(t, complaint.StatusInReview, got.Status)
	assert.NotNil(t, got.Rating, "an existing rating survives the transition")

	_, err = c.SetStatus(ctx, "CMP001", "Escalated")
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.SetStatus(ctx, "CMP999", "Resolved")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRate(t *testing.T) {
	c, st, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{
		{ID: "CMP001", Status: complaint.StatusResolved},
		{ID: "CMP002", Status: complaint.StatusSubmitted},
	}))

	require.NoError(t, c.Rate(ctx, "CMP001", 5))
	rows := st.Complaints()
	require.NotNil(t, rows[0].Rating)
	assert.Equal(t, 5, *rows[0].Rating)

	// One-time only.
	err := c.Rate(ctx, "CMP001", 3)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 5, *st.Complaints()[0].Rating, "the first rating stands")

	// Only resolved complaints can be rated.
	assert.True(t, apperrors.IsValidation(c.Rate(ctx, "CMP002", 4)))

	assert.True(t, apperrors.IsValidation(c.Rate(ctx, "CMP001", 0)))
	assert.True(t, apperrors.IsValidation(c.Rate(ctx, "CMP001", 6)))
	assert.True(t, apperrors.IsNotFound(c.Rate(ctx, "CMP999", 4)))
}

func TestDelete(t *testing.T) {
	c, st, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{
		{ID: "CMP001"}, {ID: "CMP002"},
	}))

	removed, err := c.Delete(ctx, "CMP001")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, st.Complaints(), 1)

	// Unknown id is a quiet no-op.
	removed, err = c.Delete(ctx, "CMP999")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, st.Complaints(), 1)
}

func TestRecordAB(t *testing.T) {
	c, st, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, c.RecordAB(ctx, "a"))
	require.NoError(t, c.RecordAB(ctx, "B"))
	require.NoError(t, c.RecordAB(ctx, "b"))

	ab := st.AB()
	assert.Equal(t, 1, ab.A)
	assert.Equal(t, 2, ab.B)

	assert.True(t, apperrors.IsValidation(c.RecordAB(ctx, "c")))
}

func TestUpdateSettings(t *testing.T) {
	c, st, _ := newTestCore(t)

	dark := complaint.ThemeDark
	compact := true
	got, err := c.UpdateSettings(context.Background(), complaint.SettingsPatch{
		Theme:       &dark,
		CompactMode: &compact,
	})
	require.NoError(t, err)

	assert.Equal(t, complaint.ThemeDark, got.Theme)
	assert.True(t, got.CompactMode)
	assert.True(t, got.ToastEnabled, "untouched keys keep their values")
	assert.Equal(t, got, st.Settings())
}

func TestExportCSV(t *testing.T) {
	c, st, _ := newTestCore(t)

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{
		{ID: "CMP001", Name: "Aarav", Status: complaint.StatusResolved},
	}))

	got := c.ExportCSV()
	assert.True(t, strings.HasPrefix(got, "id,name,email,category,description,status,rating,createdAt"))
	assert.Contains(t, got, `"CMP001"`)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c, st, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{{ID: "CMP001", Name: "Aarav"}}))
	require.NoError(t, st.SaveAB(complaint.AbStats{A: 2, B: 1}))

	data, err := c.ExportSnapshot()
	require.NoError(t, err)

	require.NoError(t, st.Clear())
	require.NoError(t, c.ImportSnapshot(ctx, data))

	rows := st.Complaints()
	require.Len(t, rows, 1)
	assert.Equal(t, "CMP001", rows[0].ID)
	assert.Equal(t, complaint.AbStats{A: 2, B: 1}, st.AB())
}

func TestImportSnapshot_MissingComplaintsRejected(t *testing.T) {
	c, st, _ := newTestCore(t)

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{{ID: "CMP001"}}))

	for _, payload := range []string{
		`{"ab":{"a":1,"b":2}}`,
		`not json at all`,
		`[1,2,3]`,
	} {
		err := c.ImportSnapshot(context.Background(), []byte(payload))
		assert.True(t, apperrors.IsValidation(err), "payload %q", payload)
	}

	assert.Len(t, st.Complaints(), 1, "a rejected import leaves stored state untouched")
}

func TestImportSnapshot_MissingSettingsKeepCurrent(t *testing.T) {
	c, st, _ := newTestCore(t)

	dark := complaint.DefaultSettings()
	dark.Theme = complaint.ThemeDark
	require.NoError(t, st.SaveSettings(dark))

	require.NoError(t, c.ImportSnapshot(context.Background(), []byte(`{"complaints":[]}`)))

	assert.Equal(t, complaint.ThemeDark, st.Settings().Theme,
		"a backup without settings keeps the current ones")
	assert.Equal(t, complaint.AbStats{}, st.AB(),
		"a backup without counters resets them to zero")
}

func TestClearData(t *testing.T) {
	c, st, backend := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{{ID: "CMP001"}}))
	require.NoError(t, c.ClearData(ctx))

	assert.Empty(t, st.Complaints())

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.snapshot.Complaints, "the clear propagates to the backend")
}

func TestPushAndPullBackend(t *testing.T) {
	c, st, backend := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveComplaints([]complaint.Complaint{{ID: "CMP001", Name: "Local"}}))
	require.True(t, c.PushToBackend(ctx))

	backend.mu.Lock()
	backend.snapshot.Complaints = append(backend.snapshot.Complaints,
		complaint.Complaint{ID: "CMP002", Name: "Remote"})
	backend.mu.Unlock()

	require.True(t, c.PullFromBackend(ctx))
	assert.Len(t, st.Complaints(), 2, "the pulled snapshot replaces the local cache")
}

func TestPushToBackend_Offline(t *testing.T) {
	c, _ := newOfflineCore(t)
	ctx := context.Background()

	assert.False(t, c.PushToBackend(ctx))
	assert.False(t, c.PullFromBackend(ctx))
	assert.False(t, c.Synced(ctx))
}
