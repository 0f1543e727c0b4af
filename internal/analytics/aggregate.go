package analytics

import (
	"fmt"
	"sort"
	"time"
)

// minAggregateMovingTimeSec filters noise recordings (GPS drift, accidental
// starts) out of daily aggregation. Fixed policy, not configurable.
const minAggregateMovingTimeSec = 5 * 60

// ActivitySummary describes what a LoadPoint aggregates: a single
// activity's own identity, or a synthetic merge of several.
type ActivitySummary struct {
	Name          string `json:"name"`
	SportType     string `json:"sport_type"`
	MovingTimeSec int    `json:"moving_time_sec"`
}

// LoadPoint is one calendar day's aggregated training stimulus.
type LoadPoint struct {
	Date           time.Time       `json:"date"`
	TRIMP          float64         `json:"trimp"`
	TSS            float64         `json:"tss"`
	NormalizedLoad float64         `json:"normalized_load"`
	Activity       ActivitySummary `json:"activity"`
}

// LoadPoints groups qualifying activities by local calendar date and
// returns one point per day, ordered ascending by date regardless of
// input order. Same-day scores are summed, never averaged.
func (c *Calculator) LoadPoints(activities []Activity) []LoadPoint {
	qualifying := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if a.MovingTimeSec >= minAggregateMovingTimeSec {
			qualifying = append(qualifying, a)
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].StartDateLocal.Before(qualifying[j].StartDateLocal)
	})

	// Fold over the date-sorted sequence, emitting one accumulated point
	// per date boundary. Ascending output order is structural.
	points := make([]LoadPoint, 0, len(qualifying))
	acc := newDayAccumulator(qualifying[0])
	c.accumulate(&acc, qualifying[0])

	for _, a := range qualifying[1:] {
		if !sameDay(acc.date, a.LocalDate()) {
			points = append(points, acc.point())
			acc = newDayAccumulator(a)
		}
		c.accumulate(&acc, a)
	}
	points = append(points, acc.point())

	return points
}

type dayAccumulator struct {
	date       time.Time
	count      int
	mixedSport bool

	trimp, tss, load float64
	movingSec        int
	sportType        string
	name             string
}

func newDayAccumulator(a Activity) dayAccumulator {
	return dayAccumulator{date: a.LocalDate()}
}

func (c *Calculator) accumulate(acc *dayAccumulator, a Activity) {
	acc.count++
	acc.trimp += c.TRIMP(a)
	acc.tss += c.TSS(a)
	acc.load += c.NormalizedLoad(a)
	acc.movingSec += a.MovingTimeSec

	if acc.count == 1 {
		acc.name = a.Name
		acc.sportType = a.SportType
		return
	}
	if a.SportType != acc.sportType {
		acc.mixedSport = true
	}
}

func (acc dayAccumulator) point() LoadPoint {
	summary := ActivitySummary{
		Name:          acc.name,
		SportType:     acc.sportType,
		MovingTimeSec: acc.movingSec,
	}
	if acc.count > 1 {
		summary.Name = fmt.Sprintf("%d activities", acc.count)
		if acc.mixedSport {
			summary.SportType = "Mixed"
		}
	}

	return LoadPoint{
		Date:           acc.date,
		TRIMP:          acc.trimp,
		TSS:            acc.tss,
		NormalizedLoad: clamp(acc.load, 0, 100),
		Activity:       summary,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
