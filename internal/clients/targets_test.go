package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGoal(t *testing.T) {
	for in, want := range map[string]Goal{
		"":                 GoalMaintain,
		"Lose weight":      GoalLoseWeight,
		"fat loss":         GoalLoseWeight,
		"cutting":          GoalLoseWeight,
		"gain_muscle":      GoalGainMuscle,
		"Bulking season":   GoalGainMuscle,
		"stay healthy":     GoalMaintain,
		"  MAINTAIN  ":     GoalMaintain,
		"lose fat, gain m": GoalLoseWeight,
	} {
		assert.Equal(t, want, NormalizeGoal(in), in)
	}
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "male", NormalizeGender("Erkek"))
	assert.Equal(t, "female", NormalizeGender(" F "))
	assert.Equal(t, "female", NormalizeGender("kadın"))
	assert.Equal(t, "unknown", NormalizeGender("other"))
	assert.Equal(t, "unknown", NormalizeGender(""))
}

func TestBMR(t *testing.T) {
	assert.InDelta(t, 1780.0, BMR(80, 180, 30, "male"), 1e-9)
	assert.InDelta(t, 1614.0, BMR(80, 180, 30, "female"), 1e-9)
	assert.InDelta(t, 1775.0, BMR(80, 180, 30, "unknown"), 1e-9)
}

func TestWaterLitersClamps(t *testing.T) {
	assert.Equal(t, 2.8, WaterLiters(80))
	assert.Equal(t, 2.0, WaterLiters(55))
	assert.Equal(t, 4.0, WaterLiters(150))
	assert.Equal(t, 2.5, WaterLiters(72))
}

func TestComputeTargetsAssumesAge(t *testing.T) {
	got := ComputeTargets(Measurements{WeightKg: 80, HeightCm: 180, Gender: "male", GoalType: "lose weight"})
	assert.Equal(t, 2.8, got.WaterLiters)
	assert.Equal(t, 2459, got.KcalGoal)
	assert.Equal(t, 11000, got.StepGoal)
	assert.Equal(t, Assumptions{Age: 30, AgeAssumed: true, ActivityMultiplier: 1.55, Goal: GoalLoseWeight}, got.Assumptions)
}

func TestComputeTargetsUsesProfile(t *testing.T) {
	age := 25
	got := ComputeTargets(Measurements{
		WeightKg: 55, HeightCm: 165, Age: &age, Gender: "female",
		GoalType: "gain muscle", ActivityLevel: "active",
	})
	assert.Equal(t, 2.0, got.WaterLiters)
	assert.Equal(t, 2484, got.KcalGoal)
	assert.Equal(t, 9000, got.StepGoal)
	assert.False(t, got.Assumptions.AgeAssumed)
	assert.Equal(t, 1.725, got.Assumptions.ActivityMultiplier)
}

func TestKcalGoalFloor(t *testing.T) {
	age := 90
	got := ComputeTargets(Measurements{WeightKg: 30, HeightCm: 100, Age: &age, Gender: "female", GoalType: "lose", ActivityLevel: "sedentary"})
	assert.Equal(t, 1200, got.KcalGoal)
}
