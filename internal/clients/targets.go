package clients

import (
	"math"
	"strings"
)

// Goal is a normalized goal_type.
type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalGainMuscle Goal = "gain_muscle"
	GoalMaintain   Goal = "maintain"
)

const (
	assumedAge         = 30
	defaultMultiplier  = 1.55
	minKcal            = 1200
	waterPerKg         = 0.035
	minWater, maxWater = 2.0, 4.0
	loseDeficit        = 300
	gainSurplus        = 250
)

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// NormalizeGoal maps free-form goal text to a Goal. Unknown text is
// GoalMaintain.
func NormalizeGoal(s string) Goal {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return GoalMaintain
	case containsAny(s, "lose", "weight loss", "fat loss", "cutting"):
		return GoalLoseWeight
	case containsAny(s, "gain", "muscle", "bulk"):
		return GoalGainMuscle
	}
	return GoalMaintain
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// NormalizeGender returns "male", "female" or "unknown".
func NormalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man", "erkek":
		return "male"
	case "female", "f", "woman", "kadın", "kadin":
		return "female"
	}
	return "unknown"
}

// ActivityMultiplier maps an activity level to its TDEE factor; unknown
// levels use the moderate factor.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return m
	}
	return defaultMultiplier
}

// BMR is the Mifflin-St Jeor basal rate in kcal/day. An unknown gender gets
// no sex adjustment.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case "male":
		return base + 5
	case "female":
		return base - 161
	}
	return base
}

// WaterLiters is 35 ml per kg, clamped to 2-4 l and rounded to 0.1 l.
func WaterLiters(weightKg float64) float64 {
	w := math.Max(minWater, math.Min(weightKg*waterPerKg, maxWater))
	return math.Round(w*10) / 10
}

func KcalGoal(bmr, multiplier float64, goal Goal) int {
	kcal := bmr * multiplier
	switch goal {
	case GoalLoseWeight:
		kcal -= loseDeficit
	case GoalGainMuscle:
		kcal += gainSurplus
	}
	return max(minKcal, int(math.Round(kcal)))
}

func StepGoal(goal Goal) int {
	switch goal {
	case GoalLoseWeight:
		return 11000
	case GoalGainMuscle:
		return 9000
	}
	return 10000
}

type Assumptions struct {
	Age                int     `json:"age"`
	AgeAssumed         bool    `json:"age_assumed"`
	ActivityMultiplier float64 `json:"activity_multiplier"`
	Goal               Goal    `json:"goal"`
}

type Targets struct {
	WaterLiters float64     `json:"water_liters"`
	KcalGoal    int         `json:"kcal_goal"`
	StepGoal    int         `json:"step_goal"`
	Assumptions Assumptions `json:"assumptions"`
}

// Measurements are the profile fields the targets depend on.
type Measurements struct {
	WeightKg      float64
	HeightCm      float64
	Age           *int
	Gender        string
	GoalType      string
	ActivityLevel string
}

// ComputeTargets derives daily water, calorie and step goals. A missing age
// falls back to 30.
func ComputeTargets(m Measurements) Targets {
	a := Assumptions{
		Age:                assumedAge,
		AgeAssumed:         true,
		ActivityMultiplier: ActivityMultiplier(m.ActivityLevel),
		Goal:               NormalizeGoal(m.GoalType),
	}
	if m.Age != nil && *m.Age > 0 {
		a.Age, a.AgeAssumed = *m.Age, false
	}
	bmr := BMR(m.WeightKg, m.HeightCm, a.Age, NormalizeGender(m.Gender))
	return Targets{
		WaterLiters: WaterLiters(m.WeightKg),
		KcalGoal:    KcalGoal(bmr, a.ActivityMultiplier, a.Goal),
		StepGoal:    StepGoal(a.Goal),
		Assumptions: a,
	}
}
