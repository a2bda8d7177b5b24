package domain

// Exercise is one entry of a workout. For timed holds (plank, L-sit)
// Reps is a number of seconds.
type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest"`
}

// Workout represents a single session of the weekly plan.
type Workout struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	Duration  int        `json:"duration"` // minutes, informational
	Day       string     `json:"day"`      // "Monday", "Wednesday", ...
}

// Meal is one slot of the daily meal plan.
type Meal struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fat      int    `json:"fat"`
	ImageURL string `json:"imageUrl,omitempty"`
	Time     string `json:"time,omitempty"` // HH:MM
}
