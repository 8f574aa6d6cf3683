package complaint

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// etaDays is the promised turnaround per open status. Statuses not in
// the map fall back to defaultEtaDays.
var etaDays = map[Status]int{
	StatusSubmitted:  5,
	StatusInReview:   4,
	StatusInProgress: 2,
}

const defaultEtaDays = 4

// dateLayout is the storage format of Complaint.CreatedAt.
const dateLayout = "2006-01-02"

// NextID returns the id for the next complaint: the highest numeric
// suffix in the collection plus one, zero-padded to three digits.
//
// Ids whose suffix does not parse are ignored, so a corrupted entry
// can never block submissions. An empty collection yields "CMP001".
func NextID(complaints []Complaint) string {
	maxNum := 0
	for _, c := range complaints {
		n, err := strconv.Atoi(strings.TrimPrefix(c.ID, "CMP"))
		if err == nil && n > maxNum {
			maxNum = n
		}
	}
	return fmt.Sprintf("CMP%03d", maxNum+1)
}

// EtaLabel renders the due-date label shown next to an open complaint.
//
// Terminal statuses short-circuit: Resolved reads "Resolved" and
// Rejected reads "Closed". For open complaints the due date is
// CreatedAt plus the status turnaround, compared against today at
// midnight:
//
//	past due    → "Overdue {n} day(s)"
//	due now     → "Due today"
//	still open  → "{n} day(s) left"
//
// today is passed in explicitly so callers and tests control the clock.
func EtaLabel(c Complaint, today time.Time) string {
	switch c.Status {
	case StatusResolved:
		return "Resolved"
	case StatusRejected:
		return "Closed"
	}

	days, ok := etaDays[c.Status]
	if !ok {
		days = defaultEtaDays
	}

	created, err := time.ParseInLocation(dateLayout, c.CreatedAt, today.Location())
	if err != nil {
		// An unparseable date cannot produce a meaningful countdown;
		// treat the complaint as freshly created.
		created = midnight(today)
	}

	eta := created.AddDate(0, 0, days)
	// Round rather than truncate so a DST-shortened day still counts
	// as a whole day.
	diff := int(math.Round(eta.Sub(midnight(today)).Hours() / 24))

	switch {
	case diff < 0:
		return fmt.Sprintf("Overdue %d day(s)", -diff)
	case diff == 0:
		return "Due today"
	default:
		return fmt.Sprintf("%d day(s) left", diff)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AverageRating returns the mean of all recorded ratings, or 0 when
// none exist. Unrated complaints are excluded from the denominator,
// never counted as zero.
func AverageRating(complaints []Complaint) float64 {
	sum, count := 0, 0
	for _, c := range complaints {
		if c.Rating != nil {
			sum += *c.Rating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// csvHeader is the fixed export column order.
var csvHeader = []string{"id", "name", "email", "category", "description", "status", "rating", "createdAt"}

// ToCSV serializes rows for export.
//
// The header line is unquoted; every data field is double-quoted with
// internal quotes doubled, which keeps commas and newlines inside
// descriptions intact. An absent rating serializes as an empty string.
// encoding/csv is deliberately not used here: it quotes only when
// necessary, and the export format quotes every field unconditionally.
func ToCSV(rows []Complaint) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, r := range rows {
		rating := ""
		if r.Rating != nil {
			rating = strconv.Itoa(*r.Rating)
		}
		fields := []string{
			r.ID,
			r.Name,
			r.Email,
			string(r.Category),
			r.Description,
			string(r.Status),
			rating,
			r.CreatedAt,
		}
		b.WriteString("\n")
		for i, f := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"`)
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteString(`"`)
		}
	}

	return b.String()
}

// badgeClasses maps each status to its display class token.
var badgeClasses = map[Status]string{
	StatusSubmitted:  "badge-submitted",
	StatusInReview:   "badge-review",
	StatusInProgress: "badge-progress",
	StatusResolved:   "badge-resolved",
	StatusRejected:   "badge-rejected",
}

// StatusBadgeClass returns the display class token for a status.
// Unknown statuses get a generic fallback token; this never fails.
func StatusBadgeClass(s Status) string {
	if class, ok := badgeClasses[s]; ok {
		return class
	}
	return "bg-secondary"
}
