package aligner

import (
	"github.com/simaogato/equity-outlook/internal/domain"
)

// Align joins the allocation series with the forward return series on calendar month
// Logic:
//  1. Index every return point by month(date) + returnMonthOffset
//  2. Walk the allocation series in its own order, dropping observations without a percentage
//  3. Attach the return whose shifted month equals the observation's month, or nil if none does
//
// The allocation series must already be in ascending date order; the output keeps that order.
// When several return points land on the same month, the first one carrying a value wins.
func Align(observations []domain.Observation, returns []domain.ReturnPoint, returnMonthOffset int) []domain.JoinedRecord {
	byMonth := make(map[int]*float64, len(returns))
	for _, point := range returns {
		key := domain.MonthIndex(point.Date) + returnMonthOffset
		if existing, ok := byMonth[key]; ok && existing != nil {
			continue
		}
		byMonth[key] = copyValue(point.ForwardReturn)
	}

	joined := make([]domain.JoinedRecord, 0, len(observations))
	for _, obs := range observations {
		if obs.AllocationPercentage == nil {
			continue
		}

		joined = append(joined, domain.JoinedRecord{
			Date:                 obs.Date,
			AllocationPercentage: *obs.AllocationPercentage,
			ForwardReturn:        copyValue(byMonth[domain.MonthIndex(obs.Date)]),
		})
	}

	return joined
}

// Pairs extracts the (allocation, return) pairs of the records that carry a return
func Pairs(records []domain.JoinedRecord) (xs, ys []float64) {
	xs = make([]float64, 0, len(records))
	ys = make([]float64, 0, len(records))
	for _, r := range records {
		if !r.HasReturn() {
			continue
		}
		xs = append(xs, r.AllocationPercentage)
		ys = append(ys, *r.ForwardReturn)
	}
	return xs, ys
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
