// Package view computes the filtered, sorted and aggregated read-only
// views consumed by the pages. Nothing in this package mutates stored
// state; inputs are copied before sorting.
package view

import (
	"sort"
	"strings"
	"time"

	"resolvex/internal/complaint"
)

// All is the sentinel filter value that matches every status or
// category.
const All = "All"

// Filters narrows a complaint collection. Zero values pass everything
// through: empty Status/Category behave like All, an empty Query
// matches every row.
type Filters struct {
	Status   string
	Category string
	Query    string
}

// Filter returns the rows matching all three predicates.
//
// Status and category match exactly or pass on the All sentinel. The
// free-text query matches case-insensitively against the concatenation
// of id, name, email and description. With default filters the input
// comes back unchanged in order.
func Filter(rows []complaint.Complaint, f Filters) []complaint.Complaint {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]complaint.Complaint, 0, len(rows))
	for _, c := range rows {
		if f.Status != "" && f.Status != All && string(c.Status) != f.Status {
			continue
		}
		if f.Category != "" && f.Category != All && string(c.Category) != f.Category {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(c.ID + " " + c.Name + " " + c.Email + " " + c.Description)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// SortNewest sorts newest first; any other direction sorts oldest
// first.
const SortNewest = "newest"

// SortByDate returns a copy of rows ordered by CreatedAt. Ties keep
// their relative order.
func SortByDate(rows []complaint.Complaint, direction string) []complaint.Complaint {
	out := make([]complaint.Complaint, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		a := parseDate(out[i].CreatedAt)
		b := parseDate(out[j].CreatedAt)
		if direction == SortNewest {
			return a.After(b)
		}
		return a.Before(b)
	})
	return out
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Stats are the headline numbers shown on the home and admin pages.
type Stats struct {
	Total         int
	Pending       int
	Resolved      int
	Rejected      int
	AverageRating float64
}

// ComputeStats aggregates the collection into dashboard counters.
// Pending covers the three non-terminal statuses.
func ComputeStats(rows []complaint.Complaint) Stats {
	s := Stats{
		Total:         len(rows),
		AverageRating: complaint.AverageRating(rows),
	}
	for _, c := range rows {
		switch {
		case c.Status.Active():
			s.Pending++
		case c.Status == complaint.StatusResolved:
			s.Resolved++
		case c.Status == complaint.StatusRejected:
			s.Rejected++
		}
	}
	return s
}

// Distribution holds the rating histogram for the feedback page.
// Buckets[i] counts ratings of value i+1. Max is never below one so
// bar widths can divide by it directly.
type Distribution struct {
	Buckets [5]int
	Max     int
}

// RatingDistribution buckets the ratings of resolved complaints.
// Unresolved or unrated rows are skipped.
func RatingDistribution(rows []complaint.Complaint) Distribution {
	d := Distribution{Max: 1}
	for _, c := range rows {
		if c.Status != complaint.StatusResolved || c.Rating == nil {
			continue
		}
		r := *c.Rating
		if r < 1 || r > 5 {
			continue
		}
		d.Buckets[r-1]++
		if d.Buckets[r-1] > d.Max {
			d.Max = d.Buckets[r-1]
		}
	}
	return d
}

// Outcomes of an A/B comparison.
const (
	WinnerNone = "none"
	WinnerTie  = "tie"
	WinnerA    = "a"
	WinnerB    = "b"
)

// ABWinner names the leading call-to-action variant: "none" before any
// interaction, "tie" when equal and nonzero, otherwise the larger
// side. The total is always reported alongside.
func ABWinner(ab complaint.AbStats) (winner string, total int) {
	total = ab.Total()
	switch {
	case total == 0:
		return WinnerNone, 0
	case ab.A == ab.B:
		return WinnerTie, total
	case ab.A > ab.B:
		return WinnerA, total
	default:
		return WinnerB, total
	}
}
