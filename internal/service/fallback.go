package service

import "lamx12/nutri-plan/internal/domain"

var workoutTemplates = map[domain.TrainingStyle][]domain.Workout{
	domain.TrainingHome: {
		{
			Name: "Upper Body Strength",
			Exercises: []domain.Exercise{
				{Name: "Push-ups", Sets: 3, Reps: 15, RestSeconds: 60},
				{Name: "Chair Dips", Sets: 3, Reps: 12, RestSeconds: 60},
				{Name: "Plank", Sets: 3, Reps: 30, RestSeconds: 45},
				{Name: "Wide Push-ups", Sets: 3, Reps: 10, RestSeconds: 60},
			},
			Duration: 30,
			Day:      "Monday",
		},
		{
			Name: "Lower Body Focus",
			Exercises: []domain.Exercise{
				{Name: "Bodyweight Squats", Sets: 4, Reps: 20, RestSeconds: 60},
				{Name: "Lunges", Sets: 3, Reps: 12, RestSeconds: 60},
				{Name: "Glute Bridges", Sets: 3, Reps: 15, RestSeconds: 45},
				{Name: "Calf Raises", Sets: 3, Reps: 20, RestSeconds: 30},
			},
			Duration: 30,
			Day:      "Wednesday",
		},
		{
			Name: "Full Body Circuit",
			Exercises: []domain.Exercise{
				{Name: "Jumping Jacks", Sets: 3, Reps: 30, RestSeconds: 30},
				{Name: "Mountain Climbers", Sets: 3, Reps: 20, RestSeconds: 30},
				{Name: "Burpees", Sets: 3, Reps: 10, RestSeconds: 60},
				{Name: "Bicycle Crunches", Sets: 3, Reps: 20, RestSeconds: 45},
			},
			Duration: 25,
			Day:      "Friday",
		},
	},
	domain.TrainingGym: {
		{
			Name: "Chest and Triceps",
			Exercises: []domain.Exercise{
				{Name: "Bench Press", Sets: 4, Reps: 8, RestSeconds: 90},
				{Name: "Incline Dumbbell Press", Sets: 3, Reps: 10, RestSeconds: 75},
				{Name: "Cable Flyes", Sets: 3, Reps: 12, RestSeconds: 60},
				{Name: "Tricep Pushdowns", Sets: 3, Reps: 12, RestSeconds: 60},
			},
			Duration: 45,
			Day:      "Monday",
		},
		{
			Name: "Back and Biceps",
			Exercises: []domain.Exercise{
				{Name: "Deadlifts", Sets: 4, Reps: 8, RestSeconds: 120},
				{Name: "Pull-ups", Sets: 3, Reps: 8, RestSeconds: 90},
				{Name: "Seated Cable Rows", Sets: 3, Reps: 10, RestSeconds: 75},
				{Name: "Barbell Curls", Sets: 3, Reps: 12, RestSeconds: 60},
			},
			Duration: 50,
			Day:      "Wednesday",
		},
		{
			Name: "Legs and Shoulders",
			Exercises: []domain.Exercise{
				{Name: "Squats", Sets: 4, Reps: 8, RestSeconds: 120},
				{Name: "Leg Press", Sets: 3, Reps: 12, RestSeconds: 90},
				{Name: "Military Press", Sets: 3, Reps: 10, RestSeconds: 75},
				{Name: "Lateral Raises", Sets: 3, Reps: 15, RestSeconds: 60},
			},
			Duration: 45,
			Day:      "Friday",
		},
	},
	domain.TrainingCalisthenics: {
		{
			Name: "Push Day",
			Exercises: []domain.Exercise{
				{Name: "Handstand Push-ups", Sets: 3, Reps: 8, RestSeconds: 90},
				{Name: "Ring Push-ups", Sets: 3, Reps: 12, RestSeconds: 75},
				{Name: "Dips", Sets: 4, Reps: 10, RestSeconds: 90},
				{Name: "Pike Push-ups", Sets: 3, Reps: 15, RestSeconds: 60},
			},
			Duration: 40,
			Day:      "Monday",
		},
		{
			Name: "Pull Day",
			Exercises: []domain.Exercise{
				{Name: "Pull-ups", Sets: 4, Reps: 8, RestSeconds: 90},
				{Name: "Australian Pull-ups", Sets: 3, Reps: 12, RestSeconds: 60},
				{Name: "Chin-ups", Sets: 3, Reps: 8, RestSeconds: 90},
				{Name: "Face Pulls", Sets: 3, Reps: 12, RestSeconds: 60},
			},
			Duration: 40,
			Day:      "Wednesday",
		},
		{
			Name: "Legs and Core",
			Exercises: []domain.Exercise{
				{Name: "Pistol Squats", Sets: 3, Reps: 8, RestSeconds: 90},
				{Name: "Jump Squats", Sets: 3, Reps: 15, RestSeconds: 60},
				{Name: "L-sits", Sets: 3, Reps: 20, RestSeconds: 60},
				{Name: "Dragon Flags", Sets: 3, Reps: 8, RestSeconds: 90},
			},
			Duration: 35,
			Day:      "Friday",
		},
	},
}

// FallbackWorkoutPlan returns a fresh copy of the fixed weekly template for style.
// Unknown styles get the calisthenics template.
func FallbackWorkoutPlan(style domain.TrainingStyle) []domain.Workout {
	tmpl, ok := workoutTemplates[style]
	if !ok {
		tmpl = workoutTemplates[domain.TrainingCalisthenics]
	}
	out := make([]domain.Workout, len(tmpl))
	for i, w := range tmpl {
		w.Exercises = append([]domain.Exercise(nil), w.Exercises...)
		out[i] = w
	}
	return out
}

// Meal slot shares of the daily target. The snack takes whatever is left.
const (
	breakfastShare = 0.25
	lunchShare     = 0.35
	dinnerShare    = 0.30
)

type mealSplit struct {
	calories, protein, carbs, fat int
}

func splitTargets(calories int, macros domain.MacroTarget, share float64) mealSplit {
	return mealSplit{
		calories: round(float64(calories) * share),
		protein:  round(float64(macros.Protein) * share),
		carbs:    round(float64(macros.Carbs) * share),
		fat:      round(float64(macros.Fat) * share),
	}
}

// FallbackMealPlan spreads the daily targets over four meals so that the
// meal totals equal calories and each macro target exactly.
func FallbackMealPlan(calories int, macros domain.MacroTarget) []domain.Meal {
	breakfast := splitTargets(calories, macros, breakfastShare)
	lunch := splitTargets(calories, macros, lunchShare)
	dinner := splitTargets(calories, macros, dinnerShare)
	snack := mealSplit{
		calories: calories - breakfast.calories - lunch.calories - dinner.calories,
		protein:  macros.Protein - breakfast.protein - lunch.protein - dinner.protein,
		carbs:    macros.Carbs - breakfast.carbs - lunch.carbs - dinner.carbs,
		fat:      macros.Fat - breakfast.fat - lunch.fat - dinner.fat,
	}

	return []domain.Meal{
		meal("Protein Oatmeal with Berries", "08:00", breakfast),
		meal("Grilled Chicken Salad with Quinoa", "13:00", lunch),
		meal("Greek Yogurt with Nuts and Honey", "16:00", snack),
		meal("Baked Salmon with Sweet Potato and Asparagus", "19:00", dinner),
	}
}

func meal(name, at string, s mealSplit) domain.Meal {
	return domain.Meal{
		Name:     name,
		Calories: s.calories,
		Protein:  s.protein,
		Carbs:    s.carbs,
		Fat:      s.fat,
		Time:     at,
	}
}
