// Package overlap finds how long every pair of employees worked together on a project.
package overlap

import (
	"time"

	"github.com/Artexxx/pair-overlap/internal/dto"
)

const secondsPerDay = 24 * 60 * 60

// Result holds one accumulator per canonical pair key in first-seen order.
type Result struct {
	index map[dto.PairKey]int
	items []dto.PairOverlap
}

func newResult() *Result {
	return &Result{index: make(map[dto.PairKey]int)}
}

func (r *Result) add(key dto.PairKey, days int) {
	if i, ok := r.index[key]; ok {
		r.items[i].DaysWorkedTogether += days
		return
	}

	r.index[key] = len(r.items)
	r.items = append(r.items, dto.PairOverlap{
		EmployeeLowID:      key.Low,
		EmployeeHighID:     key.High,
		ProjectID:          key.ProjectID,
		DaysWorkedTogether: days,
	})
}

func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Get returns the accumulator stored under key.
func (r *Result) Get(key dto.PairKey) (dto.PairOverlap, bool) {
	if r == nil {
		return dto.PairOverlap{}, false
	}

	i, ok := r.index[key]
	if !ok {
		return dto.PairOverlap{}, false
	}

	return r.items[i], true
}

// Overlaps returns a copy of the accumulators.
func (r *Result) Overlaps() []dto.PairOverlap {
	if r == nil {
		return []dto.PairOverlap{}
	}

	out := make([]dto.PairOverlap, len(r.items))
	copy(out, r.items)

	return out
}

// Compute groups records by project and sums the inclusive day overlap of
// every pair of records inside each group. today is the effective end of
// open-ended assignments for the whole run.
func Compute(records []dto.AssignmentRecord, today time.Time) *Result {
	today = dateOnly(today)
	result := newResult()

	var order []int
	groups := make(map[int][]dto.AssignmentRecord)
	for _, rec := range records {
		if _, ok := groups[rec.ProjectID]; !ok {
			order = append(order, rec.ProjectID)
		}
		groups[rec.ProjectID] = append(groups[rec.ProjectID], rec)
	}

	for _, projectID := range order {
		group := groups[projectID]

		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				days := Overlap(group[i], group[j], today)
				if days == 0 {
					continue
				}

				result.add(dto.NewPairKey(group[i].EmployeeID, group[j].EmployeeID, projectID), days)
			}
		}
	}

	return result
}

// Overlap returns the number of calendar days both assignments cover,
// counting both boundary days, or 0 when the periods do not intersect.
func Overlap(a, b dto.AssignmentRecord, today time.Time) int {
	today = dateOnly(today)

	latestStart := a.DateFrom
	if b.DateFrom.After(latestStart) {
		latestStart = b.DateFrom
	}

	earliestEnd := a.EffectiveEnd(today)
	if end := b.EffectiveEnd(today); end.Before(earliestEnd) {
		earliestEnd = end
	}

	if latestStart.After(earliestEnd) {
		return 0
	}

	// both boundary days count: a shared single day is 1, not 0.
	// Sub переполняет time.Duration на интервалах длиннее ~292 лет
	return int((dateOnly(earliestEnd).Unix()-dateOnly(latestStart).Unix())/secondsPerDay) + 1
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
