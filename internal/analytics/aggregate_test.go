package analytics

import (
	"math"
	"testing"
	"time"
)

func dayAt(day int, hour int) time.Time {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

func TestLoadPointsFiltersNoise(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	short := hrActivity("Run", 2*60, 150)
	short.Name = "GPS blip"
	short.StartDateLocal = dayAt(0, 7)

	long := hrActivity("Run", 30*60, 150)
	long.Name = "Morning Run"
	long.StartDateLocal = dayAt(0, 9)

	points := c.LoadPoints([]Activity{short, long})

	if len(points) != 1 {
		t.Fatalf("LoadPoints() returned %d points, want 1", len(points))
	}

	p := points[0]
	if p.Activity.Name != "Morning Run" {
		t.Errorf("Activity.Name = %q, want %q", p.Activity.Name, "Morning Run")
	}
	if p.Activity.MovingTimeSec != 30*60 {
		t.Errorf("Activity.MovingTimeSec = %d, want %d", p.Activity.MovingTimeSec, 30*60)
	}

	wantTRIMP := c.TRIMP(long)
	if math.Abs(p.TRIMP-wantTRIMP) > 0.001 {
		t.Errorf("TRIMP = %v, want only the long activity's %v", p.TRIMP, wantTRIMP)
	}
}

func TestLoadPointsMergesMixedDay(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	run := hrActivity("Run", 40*60, 155)
	run.Name = "Tempo Run"
	run.StartDateLocal = dayAt(0, 7)

	ride := hrActivity("Ride", 60*60, 140)
	ride.Name = "Evening Spin"
	ride.StartDateLocal = dayAt(0, 18)

	points := c.LoadPoints([]Activity{run, ride})

	if len(points) != 1 {
		t.Fatalf("LoadPoints() returned %d points, want 1", len(points))
	}

	p := points[0]
	if p.Activity.Name != "2 activities" {
		t.Errorf("Activity.Name = %q, want %q", p.Activity.Name, "2 activities")
	}
	if p.Activity.SportType != "Mixed" {
		t.Errorf("Activity.SportType = %q, want %q", p.Activity.SportType, "Mixed")
	}
	if want := 100 * 60; p.Activity.MovingTimeSec != want {
		t.Errorf("Activity.MovingTimeSec = %d, want %d", p.Activity.MovingTimeSec, want)
	}

	wantTSS := c.TSS(run) + c.TSS(ride)
	if math.Abs(p.TSS-wantTSS) > 0.001 {
		t.Errorf("TSS = %v, want sum of per-activity scores %v", p.TSS, wantTSS)
	}
}

func TestLoadPointsSameSportDayKeepsSport(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	first := hrActivity("Run", 30*60, 150)
	first.StartDateLocal = dayAt(0, 7)
	second := hrActivity("Run", 30*60, 150)
	second.StartDateLocal = dayAt(0, 17)

	points := c.LoadPoints([]Activity{first, second})

	if len(points) != 1 {
		t.Fatalf("LoadPoints() returned %d points, want 1", len(points))
	}
	if points[0].Activity.SportType != "Run" {
		t.Errorf("SportType = %q, want %q for a single-sport day", points[0].Activity.SportType, "Run")
	}
	if points[0].Activity.Name != "2 activities" {
		t.Errorf("Name = %q, want %q", points[0].Activity.Name, "2 activities")
	}
}

func TestLoadPointsSortsAscending(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	var activities []Activity
	for _, day := range []int{4, 0, 2, 1, 3} {
		a := hrActivity("Run", 30*60, 150)
		a.StartDateLocal = dayAt(day, 8)
		activities = append(activities, a)
	}

	points := c.LoadPoints(activities)

	if len(points) != 5 {
		t.Fatalf("LoadPoints() returned %d points, want 5", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i-1].Date.Before(points[i].Date) {
			t.Errorf("points out of order: %v before %v", points[i-1].Date, points[i].Date)
		}
	}
}

func TestLoadPointsEmptyAndAllFiltered(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	if got := c.LoadPoints(nil); got != nil {
		t.Errorf("LoadPoints(nil) = %v, want nil", got)
	}

	blip := hrActivity("Run", 60, 150)
	blip.StartDateLocal = dayAt(0, 8)
	if got := c.LoadPoints([]Activity{blip}); got != nil {
		t.Errorf("LoadPoints(all noise) = %v, want nil", got)
	}
}

func TestLoadPointsDayNormalizedLoadClamped(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	// Three hard sessions in one day must sum, then clamp, never average
	// below the hardest single session.
	var activities []Activity
	for hour := range 3 {
		a := hrActivity("Run", 90*60, 170)
		a.StartDateLocal = dayAt(0, 6+hour*5)
		activities = append(activities, a)
	}

	points := c.LoadPoints(activities)
	if len(points) != 1 {
		t.Fatalf("LoadPoints() returned %d points, want 1", len(points))
	}

	day := points[0].NormalizedLoad
	single := c.NormalizedLoad(activities[0])

	if day < single {
		t.Errorf("day load %v below single-activity load %v", day, single)
	}
	if day > 100 {
		t.Errorf("day load %v exceeds 100", day)
	}
}
