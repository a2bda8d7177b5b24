package domain

// Tracked pairs what was consumed with the target fixed when the day started.
type Tracked struct {
	Consumed float64 `json:"consumed"`
	Target   float64 `json:"target"`
}

type MacroProgress struct {
	Protein Tracked `json:"protein"`
	Carbs   Tracked `json:"carbs"`
	Fat     Tracked `json:"fat"`
}

// DailyProgress is the day-keyed ledger record. Exactly one exists per date;
// a new date supersedes the previous record instead of overwriting it.
type DailyProgress struct {
	Date             string        `json:"date"` // YYYY-MM-DD
	Calories         Tracked       `json:"calories"`
	Macros           MacroProgress `json:"macros"`
	WorkoutCompleted bool          `json:"workoutCompleted"`
}

// NewDailyProgress seeds a record for date with zero consumption.
func NewDailyProgress(date string, calories int, macros MacroTarget) DailyProgress {
	return DailyProgress{
		Date:     date,
		Calories: Tracked{Target: float64(calories)},
		Macros: MacroProgress{
			Protein: Tracked{Target: float64(macros.Protein)},
			Carbs:   Tracked{Target: float64(macros.Carbs)},
			Fat:     Tracked{Target: float64(macros.Fat)},
		},
	}
}
