package complaint

import (
	"strings"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func TestNextID(t *testing.T) {
	tests := []struct {
		name string
		rows []Complaint
		want string
	}{
		{"empty collection", nil, "CMP001"},
		{"sequential", []Complaint{{ID: "CMP001"}, {ID: "CMP002"}}, "CMP003"},
		{"gap keeps max", []Complaint{{ID: "CMP001"}, {ID: "CMP007"}}, "CMP008"},
		{"padding past nine", []Complaint{{ID: "CMP009"}}, "CMP010"},
		{"padding past ninety nine", []Complaint{{ID: "CMP099"}, {ID: "CMP123"}}, "CMP124"},
		{"corrupted ids ignored", []Complaint{{ID: "garbage"}, {ID: "CMP004"}}, "CMP005"},
		{"all corrupted", []Complaint{{ID: "x"}, {ID: ""}}, "CMP001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextID(tt.rows); got != tt.want {
				t.Errorf("NextID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEtaLabel(t *testing.T) {
	today := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    Status
		createdAt string
		want      string
	}{
		{"resolved short-circuits", StatusResolved, "2026-08-01", "Resolved"},
		{"rejected reads closed", StatusRejected, "2026-08-01", "Closed"},
		{"submitted due today", StatusSubmitted, "2026-08-27", "Due today"},
		{"submitted overdue one day", StatusSubmitted, "2026-08-26", "Overdue 1 day(s)"},
		{"submitted overdue many", StatusSubmitted, "2026-08-20", "Overdue 7 day(s)"},
		{"submitted still open", StatusSubmitted, "2026-08-31", "4 day(s) left"},
		{"in review window", StatusInReview, "2026-08-30", "2 day(s) left"},
		{"in progress window", StatusInProgress, "2026-09-01", "2 day(s) left"},
		{"unparseable date acts fresh", StatusSubmitted, "not-a-date", "5 day(s) left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Complaint{Status: tt.status, CreatedAt: tt.createdAt}
			if got := EtaLabel(c, today); got != tt.want {
				t.Errorf("EtaLabel(%s, %s) = %q, want %q", tt.status, tt.createdAt, got, tt.want)
			}
		})
	}
}

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Errorf("expected 0 for empty collection, got %v", got)
	}

	rows := []Complaint{
		{Rating: intPtr(4)},
		{Rating: nil},
		{Rating: intPtr(2)},
	}
	if got := AverageRating(rows); got != 3 {
		t.Errorf("expected unrated rows excluded from the mean, got %v", got)
	}

	if got := AverageRating([]Complaint{{Rating: nil}}); got != 0 {
		t.Errorf("expected 0 when nothing is rated, got %v", got)
	}
}

func TestToCSV(t *testing.T) {
	rows := []Complaint{
		{
			ID:          "CMP001",
			Name:        `Asha "Ace" Rao`,
			Email:       "asha@example.com",
			Category:    CategoryBilling,
			Description: "Charged twice, refund pending",
			Status:      StatusResolved,
			Rating:      intPtr(5),
			CreatedAt:   "2026-08-02",
		},
		{
			ID:          "CMP002",
			Name:        "Dev",
			Email:       "dev@example.com",
			Category:    CategoryOther,
			Description: "Line one\nline two",
			Status:      StatusSubmitted,
			Rating:      nil,
			CreatedAt:   "2026-08-18",
		},
	}

	got := ToCSV(rows)
	lines := strings.SplitN(got, "\n", 2)

	if lines[0] != "id,name,email,category,description,status,rating,createdAt" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
	if strings.Contains(lines[0], `"`) {
		t.Error("header line must not be quoted")
	}

	wantRow1 := `"CMP001","Asha ""Ace"" Rao","asha@example.com","Billing","Charged twice, refund pending","Resolved","5","2026-08-02"`
	if !strings.Contains(got, wantRow1) {
		t.Errorf("row with quotes not serialized as expected:\n%s", got)
	}

	// A nil rating exports as an empty quoted field, and newlines in
	// descriptions survive inside the quotes.
	wantRow2 := `"CMP002","Dev","dev@example.com","Other","Line one` + "\n" + `line two","Submitted","","2026-08-18"`
	if !strings.Contains(got, wantRow2) {
		t.Errorf("row with nil rating not serialized as expected:\n%s", got)
	}
}

func TestToCSVEmptyCollection(t *testing.T) {
	got := ToCSV(nil)
	if got != "id,name,email,category,description,status,rating,createdAt" {
		t.Errorf("empty export should be the bare header, got %q", got)
	}
}

func TestStatusBadgeClass(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusSubmitted, "badge-submitted"},
		{StatusInReview, "badge-review"},
		{StatusInProgress, "badge-progress"},
		{StatusResolved, "badge-resolved"},
		{StatusRejected, "badge-rejected"},
		{Status("Bogus"), "bg-secondary"},
	}

	for _, tt := range tests {
		if got := StatusBadgeClass(tt.status); got != tt.want {
			t.Errorf("StatusBadgeClass(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
