package inference

import (
	"fmt"
	"strings"

	"lamx12/nutri-plan/internal/domain"
)

func goalPhrase(g domain.Goal) string {
	switch g {
	case domain.GoalLose:
		return "lose weight"
	case domain.GoalGain:
		return "gain muscle"
	default:
		return "maintain weight"
	}
}

// BuildPrompt describes the profile and its targets in plain language.
func BuildPrompt(p *domain.Profile, calories int, macros domain.MacroTarget) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed fitness plan for a %d year old %s ", p.Age, p.Gender)
	fmt.Fprintf(&b, "with height %gcm and weight %gkg.\n", p.Height, p.Weight)
	fmt.Fprintf(&b, "Their goal is to %s.\n", goalPhrase(p.Goal))
	fmt.Fprintf(&b, "They prefer %s training.\n", p.TrainingStyle)
	fmt.Fprintf(&b, "Daily calorie target: %d calories.\n", calories)
	fmt.Fprintf(&b, "Daily macro targets: Protein: %dg, Carbs: %dg, Fat: %dg.\n\n", macros.Protein, macros.Carbs, macros.Fat)
	b.WriteString("Please provide:\n")
	b.WriteString("1. A weekly workout plan with 3 different workouts (for Monday, Wednesday, Friday).\n")
	b.WriteString("2. Each workout should have a name, 4 exercises (name, sets, reps, rest time), and duration.\n")
	b.WriteString("3. A daily meal plan with 4 meals (breakfast, lunch, snack, dinner) including name, calories, and macros.\n\n")
	b.WriteString(`Return the data in JSON format only, shaped as {"workoutPlan": [{"name", "day", "duration", "exercises": [{"name", "sets", "reps", "rest"}]}], "mealPlan": [{"name", "calories", "protein", "carbs", "fat", "time"}]}, no explanations needed.`)
	return b.String()
}
