package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func floatPtr(f float64) *float64 { return &f }

func TestEstimateThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		activities []Activity
		want       AthleteThresholds
	}{
		{
			name:       "empty input yields all defaults with FTP absent",
			activities: []Activity{},
			want: AthleteThresholds{
				MaxHeartRate:     190,
				RestingHeartRate: 60,
			},
		},
		{
			name: "max heart rate derived from highest recorded",
			activities: []Activity{
				{MaxHeartRate: floatPtr(178)},
				{MaxHeartRate: floatPtr(185)},
				{MaxHeartRate: floatPtr(171)},
			},
			want: AthleteThresholds{
				MaxHeartRate:     185,
				RestingHeartRate: 60,
			},
		},
		{
			name: "heart rate data alone never produces an FTP",
			activities: []Activity{
				{
					HasHeartRate:     true,
					AverageHeartRate: floatPtr(150),
					MaxHeartRate:     floatPtr(180),
					MovingTimeSec:    3600,
				},
			},
			want: AthleteThresholds{
				MaxHeartRate:     180,
				RestingHeartRate: 60,
			},
		},
		{
			name: "sustained power produces a discounted FTP",
			activities: []Activity{
				{AveragePower: floatPtr(220), MovingTimeSec: 3600},
				{AveragePower: floatPtr(180), MovingTimeSec: 5400},
			},
			want: AthleteThresholds{
				MaxHeartRate:     190,
				RestingHeartRate: 60,
				FTP:              floatPtr(209), // 220 * 0.95
			},
		},
		{
			name: "weighted power preferred over average",
			activities: []Activity{
				{AveragePower: floatPtr(200), WeightedPower: floatPtr(240), MovingTimeSec: 3600},
			},
			want: AthleteThresholds{
				MaxHeartRate:     190,
				RestingHeartRate: 60,
				FTP:              floatPtr(228), // 240 * 0.95
			},
		},
		{
			name: "short power efforts still define FTP with deeper discount",
			activities: []Activity{
				{AveragePower: floatPtr(300), MovingTimeSec: 600},
			},
			want: AthleteThresholds{
				MaxHeartRate:     190,
				RestingHeartRate: 60,
				FTP:              floatPtr(225), // 300 * 0.75
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EstimateThresholds(tt.activities)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EstimateThresholds() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEstimateThresholdsTotalOverMalformedInput(t *testing.T) {
	t.Parallel()

	// Negative and zero optional fields are treated as absent.
	activities := []Activity{
		{AveragePower: floatPtr(0), MaxHeartRate: floatPtr(-5), MovingTimeSec: 3600},
		{StartDateLocal: time.Time{}, MovingTimeSec: -100},
	}

	got := EstimateThresholds(activities)

	if got.MaxHeartRate != 190 {
		t.Errorf("MaxHeartRate = %v, want 190", got.MaxHeartRate)
	}
	if got.RestingHeartRate != 60 {
		t.Errorf("RestingHeartRate = %v, want 60", got.RestingHeartRate)
	}
	if got.FTP != nil {
		t.Errorf("FTP = %v, want nil", *got.FTP)
	}
}
