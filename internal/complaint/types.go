// Package complaint provides the complaint domain model and the pure
// derivations computed from it.
//
// Everything in this package is side-effect free: values in, values out.
// Storage, synchronization and rendering live elsewhere and consume
// these types.
package complaint

// Status is the lifecycle state of a complaint.
//
// Lifecycle:
//   - Created as Submitted
//   - Moved through In Review / In Progress by staff
//   - Terminates as Resolved or Rejected
//
// A rating is only meaningful once the status is Resolved.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusInReview   Status = "In Review"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusRejected   Status = "Rejected"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusSubmitted,
	StatusInReview,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
}

// ActiveStatuses are the non-terminal statuses counted as "pending"
// on the dashboards.
var ActiveStatuses = []Status{
	StatusSubmitted,
	StatusInReview,
	StatusInProgress,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Active reports whether s counts towards the pending total.
func (s Status) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// CoerceStatus maps an unknown raw value to StatusSubmitted.
//
// Applied at the storage and import boundaries so that data loaded
// from disk or a backup file never carries a status the rest of the
// application cannot handle.
func CoerceStatus(raw string) Status {
	if s := Status(raw); s.Valid() {
		return s
	}
	return StatusSubmitted
}

// Category classifies what a complaint is about.
type Category string

const (
	CategoryDelivery  Category = "Delivery"
	CategoryBilling   Category = "Billing"
	CategoryProduct   Category = "Product"
	CategoryService   Category = "Service"
	CategoryTechnical Category = "Technical"
	CategoryOther     Category = "Other"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryDelivery,
	CategoryBilling,
	CategoryProduct,
	CategoryService,
	CategoryTechnical,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CoerceCategory maps an unknown raw value to CategoryOther.
func CoerceCategory(raw string) Category {
	if c := Category(raw); c.Valid() {
		return c
	}
	return CategoryOther
}

// Complaint is a customer-submitted issue record.
//
// Fields:
//   - ID: "CMP" + zero-padded sequence number, unique across the collection
//   - Rating: 1..5, nil until the customer rates a resolved complaint
//   - CreatedAt: submission date as "YYYY-MM-DD"
//
// Rating is a pointer so that an absent rating round-trips as JSON null
// instead of a counted zero.
type Complaint struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Rating      *int     `json:"rating"`
	CreatedAt   string   `json:"createdAt"`
}

// Rated reports whether a rating has been recorded.
func (c Complaint) Rated() bool {
	return c.Rating != nil
}

// Normalize returns a copy of c with unknown enum values coerced to
// their fallbacks. Called when decoding complaints from storage or an
// imported backup.
func (c Complaint) Normalize() Complaint {
	c.Status = CoerceStatus(string(c.Status))
	c.Category = CoerceCategory(string(c.Category))
	return c
}

// NormalizeAll normalizes every complaint in rows.
func NormalizeAll(rows []Complaint) []Complaint {
	out := make([]Complaint, len(rows))
	for i, c := range rows {
		out[i] = c.Normalize()
	}
	return out
}

// AbStats counts interactions with the two submit-button variants.
type AbStats struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Total returns the combined interaction count.
func (s AbStats) Total() int {
	return s.A + s.B
}

// Settings holds the user-facing preferences.
type Settings struct {
	Theme              string `json:"theme"`
	CompactMode        bool   `json:"compactMode"`
	ToastEnabled       bool   `json:"toastEnabled"`
	AutoPromptFeedback bool   `json:"autoPromptFeedback"`
}

// Themes accepted by Settings.Theme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Theme:              ThemeLight,
		CompactMode:        false,
		ToastEnabled:       true,
		AutoPromptFeedback: true,
	}
}

// SettingsPatch is a partially populated settings object as decoded
// from storage or the wire. Fields left out of the payload stay nil.
type SettingsPatch struct {
	Theme              *string `json:"theme"`
	CompactMode        *bool   `json:"compactMode"`
	ToastEnabled       *bool   `json:"toastEnabled"`
	AutoPromptFeedback *bool   `json:"autoPromptFeedback"`
}

// MergeSettings lays a partial settings object over the defaults.
//
// Present keys override, missing keys inherit the default, so a
// partially populated payload can never produce a settings value with
// a missing field. An unrecognized theme falls back to light.
func MergeSettings(p SettingsPatch) Settings {
	merged := DefaultSettings()
	if p.Theme != nil && (*p.Theme == ThemeLight || *p.Theme == ThemeDark) {
		merged.Theme = *p.Theme
	}
	if p.CompactMode != nil {
		merged.CompactMode = *p.CompactMode
	}
	if p.ToastEnabled != nil {
		merged.ToastEnabled = *p.ToastEnabled
	}
	if p.AutoPromptFeedback != nil {
		merged.AutoPromptFeedback = *p.AutoPromptFeedback
	}
	return merged
}

// Snapshot is the full exportable bundle of application data. It is
// the unit of synchronization with the backend and the shape of
// backup files.
type Snapshot struct {
	Complaints []Complaint `json:"complaints"`
	AB         AbStats     `json:"ab"`
	Settings   Settings    `json:"settings"`
}
