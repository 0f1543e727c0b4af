package analytics

import "strings"

// sportLoadFactors adjusts heart-rate load per sport: equal cardiovascular
// stimulus costs more musculoskeletally on foot than in the saddle.
// Keys are lowercased sport type strings.
var sportLoadFactors = map[string]float64{
	"run":        1.0,
	"trailrun":   1.05,
	"virtualrun": 1.0,
	"treadmill":  1.0,

	"ride":             0.85,
	"virtualride":      0.85,
	"gravelride":       0.9,
	"mountainbikeride": 0.95,
	"ebikeride":        0.5,

	"swim":          0.9,
	"openwaterswim": 0.9,
	"rowing":        0.9,
	"kayaking":      0.75,
	"canoeing":      0.75,

	"walk": 0.6,
	"hike": 0.8,

	"weighttraining":   0.7,
	"strengthtraining": 0.7,
	"workout":          0.8,
	"crossfit":         0.85,
	"hiit":             0.9,

	"elliptical":   0.8,
	"stairstepper": 0.9,
	"yoga":         0.5,
	"pilates":      0.5,

	"alpineski": 0.8,
	"nordicski": 0.95,
	"snowshoe":  0.9,
}

const defaultSportFactor = 0.8

func sportFactor(sportType string) float64 {
	key := strings.ToLower(strings.ReplaceAll(sportType, " ", ""))
	if f, ok := sportLoadFactors[key]; ok {
		return f
	}
	return defaultSportFactor
}
