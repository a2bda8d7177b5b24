package inference

import (
	"encoding/json"
	"fmt"

	"lamx12/nutri-plan/internal/domain"
)

type planPayload struct {
	WorkoutPlan []domain.Workout `json:"workoutPlan"`
	MealPlan    []domain.Meal    `json:"mealPlan"`
}

// ExtractJSONObject returns the first balanced {...} substring of text.
// Braces inside JSON strings are ignored.
func ExtractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ParsePlans pulls the embedded plan object out of generated text and checks its shape.
func ParsePlans(text string) ([]domain.Workout, []domain.Meal, error) {
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return nil, nil, ErrNoJSON
	}
	var payload planPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPlans, err)
	}
	if err := validate(payload); err != nil {
		return nil, nil, err
	}
	return payload.WorkoutPlan, payload.MealPlan, nil
}

func validate(p planPayload) error {
	if len(p.WorkoutPlan) == 0 {
		return fmt.Errorf("%w: workoutPlan is empty", ErrMalformedPlans)
	}
	if len(p.MealPlan) == 0 {
		return fmt.Errorf("%w: mealPlan is empty", ErrMalformedPlans)
	}
	for i, w := range p.WorkoutPlan {
		if w.Name == "" || w.Day == "" || len(w.Exercises) == 0 {
			return fmt.Errorf("%w: workout %d needs name, day and exercises", ErrMalformedPlans, i)
		}
		for j, e := range w.Exercises {
			if e.Name == "" {
				return fmt.Errorf("%w: workout %d exercise %d has no name", ErrMalformedPlans, i, j)
			}
		}
	}
	for i, m := range p.MealPlan {
		if m.Name == "" {
			return fmt.Errorf("%w: meal %d has no name", ErrMalformedPlans, i)
		}
	}
	return nil
}
