package service

import (
	"math"

	"lamx12/nutri-plan/internal/domain"
)

// Defaults used when no profile exists yet.
const (
	DefaultDailyCalories = 2000
	sedentaryMultiplier  = 1.2
)

var DefaultMacroTargets = domain.MacroTarget{Protein: 150, Carbs: 200, Fat: 70}

// Calories per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

var activityMultipliers = map[domain.TrainingStyle]float64{
	domain.TrainingHome:         1.375,
	domain.TrainingGym:          1.55,
	domain.TrainingCalisthenics: 1.725,
}

var goalAdjustments = map[domain.Goal]float64{
	domain.GoalLose:     -500,
	domain.GoalMaintain: 0,
	domain.GoalGain:     300,
}

// MacroRatio is the share of daily calories assigned to each macro.
type MacroRatio struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

var macroRatios = map[domain.Goal]MacroRatio{
	domain.GoalLose:     {Protein: 0.40, Carbs: 0.25, Fat: 0.35},
	domain.GoalMaintain: {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
	domain.GoalGain:     {Protein: 0.30, Carbs: 0.50, Fat: 0.20},
}

// MacroRatioFor returns the split for goal; unknown goals get the maintain split.
func MacroRatioFor(goal domain.Goal) MacroRatio {
	if r, ok := macroRatios[goal]; ok {
		return r
	}
	return macroRatios[domain.GoalMaintain]
}

// CalculateBMR uses the Mifflin-St Jeor equation. Female and other share a constant.
func CalculateBMR(p *domain.Profile) float64 {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == domain.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier maps the training style to a TDEE multiplier.
func ActivityMultiplier(p *domain.Profile) float64 {
	if p == nil {
		return sedentaryMultiplier
	}
	if m, ok := activityMultipliers[p.TrainingStyle]; ok {
		return m
	}
	return sedentaryMultiplier
}

// CalculateDailyCalories returns the goal-adjusted TDEE rounded to a whole calorie.
func CalculateDailyCalories(p *domain.Profile) int {
	if p == nil {
		return DefaultDailyCalories
	}
	tdee := CalculateBMR(p) * ActivityMultiplier(p)
	tdee += goalAdjustments[p.Goal]
	return round(tdee)
}

// CalculateMacroTargets splits the daily calories by the goal's ratios.
// Each gram value is rounded on its own, so the three need not re-sum exactly.
func CalculateMacroTargets(p *domain.Profile) domain.MacroTarget {
	if p == nil {
		return DefaultMacroTargets
	}
	calories := float64(CalculateDailyCalories(p))
	ratio := MacroRatioFor(p.Goal)
	return domain.MacroTarget{
		Protein: round(calories * ratio.Protein / kcalPerGramProtein),
		Carbs:   round(calories * ratio.Carbs / kcalPerGramCarbs),
		Fat:     round(calories * ratio.Fat / kcalPerGramFat),
	}
}

// round is half-up for positive and negative values alike.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
