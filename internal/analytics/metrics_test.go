package analytics

import (
	"math"
	"strings"
	"testing"
	"time"
)

func loadPointsOver(tss []float64) []LoadPoint {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]LoadPoint, 0, len(tss))
	for i, v := range tss {
		points = append(points, LoadPoint{Date: base.AddDate(0, 0, i), TSS: v})
	}
	return points
}

func constantLoad(days int, tss float64) []float64 {
	s := make([]float64, days)
	for i := range s {
		s[i] = tss
	}
	return s
}

func TestLoadMetricsEmptyInput(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()
	got := c.LoadMetrics(nil)

	if got.AcuteLoad != 0 || got.ChronicLoad != 0 || got.Balance != 0 || got.RampRate != 0 {
		t.Errorf("empty input should zero all loads, got %+v", got)
	}
	if got.Status != StatusRecover {
		t.Errorf("Status = %q, want %q", got.Status, StatusRecover)
	}
	if !strings.Contains(got.Recommendation, "training history") {
		t.Errorf("Recommendation %q should invite the athlete to build a training history", got.Recommendation)
	}
}

func TestLoadMetrics(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()

	tests := []struct {
		name        string
		series      []float64
		wantAcute   float64
		wantChronic float64
		wantBalance float64
		wantRamp    float64
		wantStatus  TrainingStatus
		delta       float64
	}{
		{
			name:        "steady month is maintain",
			series:      constantLoad(28, 50),
			wantAcute:   50,
			wantChronic: 50,
			wantBalance: 1,
			wantRamp:    0,
			wantStatus:  StatusMaintain,
			delta:       0.01,
		},
		{
			name:        "sharp spike over a steady base is peak",
			series:      append(constantLoad(28, 30), constantLoad(7, 90)...),
			wantAcute:   90,
			wantChronic: 45, // (21*30 + 7*90) / 28
			wantBalance: 2,
			wantRamp:    200, // 630 recent vs 210 prior
			wantStatus:  StatusPeak,
			delta:       0.01,
		},
		{
			name:        "moderate progression is build",
			series:      append(constantLoad(28, 40), constantLoad(7, 52)...),
			wantAcute:   52,
			wantChronic: 43, // (21*40 + 7*52) / 28
			wantBalance: 52.0 / 43.0,
			wantRamp:    30, // 364 recent vs 280 prior
			wantStatus:  StatusBuild,
			delta:       0.01,
		},
		{
			name:        "near-total shutdown is recover",
			series:      append(constantLoad(28, 50), 0, 0, 0, 0, 0, 0, 5),
			wantAcute:   5.0 / 7.0,
			wantChronic: (21*50.0 + 5) / 28.0,
			wantBalance: (5.0 / 7.0) / ((21*50.0 + 5) / 28.0),
			wantRamp:    (5.0 - 350.0) / 350.0 * 100,
			wantStatus:  StatusRecover,
			delta:       0.01,
		},
		{
			name:        "thin history with low load is recover",
			series:      []float64{5},
			wantAcute:   5,
			wantChronic: 5,
			wantBalance: 1,
			wantRamp:    0,
			wantStatus:  StatusRecover,
			delta:       0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.LoadMetrics(loadPointsOver(tt.series))

			if math.Abs(got.AcuteLoad-tt.wantAcute) > tt.delta {
				t.Errorf("AcuteLoad = %v, want %v", got.AcuteLoad, tt.wantAcute)
			}
			if math.Abs(got.ChronicLoad-tt.wantChronic) > tt.delta {
				t.Errorf("ChronicLoad = %v, want %v", got.ChronicLoad, tt.wantChronic)
			}
			if math.Abs(got.Balance-tt.wantBalance) > tt.delta {
				t.Errorf("Balance = %v, want %v", got.Balance, tt.wantBalance)
			}
			if math.Abs(got.RampRate-tt.wantRamp) > tt.delta {
				t.Errorf("RampRate = %v, want %v", got.RampRate, tt.wantRamp)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Recommendation == "" {
				t.Error("Recommendation should never be empty")
			}
		})
	}
}

func TestLoadMetricsGapsCountAsZeroLoadDays(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Two 70-TSS days six days apart: the five silent days in between
	// must dilute the acute window, not be skipped.
	points := []LoadPoint{
		{Date: base, TSS: 70},
		{Date: base.AddDate(0, 0, 6), TSS: 70},
	}

	got := c.LoadMetrics(points)

	want := 140.0 / 7.0
	if math.Abs(got.AcuteLoad-want) > 0.01 {
		t.Errorf("AcuteLoad = %v, want %v (gap days as zeros)", got.AcuteLoad, want)
	}
}

func TestLoadMetricsStatusAlwaysInSet(t *testing.T) {
	t.Parallel()

	c := defaultCalculator()
	valid := map[TrainingStatus]bool{
		StatusPeak:     true,
		StatusMaintain: true,
		StatusBuild:    true,
		StatusRecover:  true,
	}

	serieses := [][]float64{
		nil,
		{0},
		{300},
		constantLoad(3, 20),
		constantLoad(60, 45),
		append(constantLoad(40, 80), constantLoad(7, 5)...),
		append(constantLoad(10, 5), constantLoad(7, 120)...),
	}

	for _, series := range serieses {
		got := c.LoadMetrics(loadPointsOver(series))
		if !valid[got.Status] {
			t.Errorf("Status = %q for series %v, want one of peak/maintain/build/recover", got.Status, series)
		}
	}
}
