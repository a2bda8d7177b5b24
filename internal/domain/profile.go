package domain

import (
	"errors"
	"fmt"
)

// Gender drives the BMR constant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// TrainingStyle selects the activity multiplier and the workout template.
type TrainingStyle string

const (
	TrainingHome         TrainingStyle = "home"
	TrainingGym          TrainingStyle = "gym"
	TrainingCalisthenics TrainingStyle = "calisthenics"
)

// Goal selects the calorie adjustment and the macro split.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

var ErrInvalidProfile = errors.New("profile is invalid")

// Profile is the single user profile the engine plans for.
type Profile struct {
	Name              string        `json:"name"`
	Height            float64       `json:"height"` // cm
	Weight            float64       `json:"weight"` // kg
	Age               int           `json:"age"`
	Gender            Gender        `json:"gender"`
	BodyFatPercentage *float64      `json:"bodyFatPercentage,omitempty"`
	TrainingStyle     TrainingStyle `json:"trainingStyle"`
	Goal              Goal          `json:"goal"`
	PhotoURL          string        `json:"photoUrl,omitempty"` // object key in photo storage
}

// IsComplete reports whether every required field is filled in.
// UI collaborators gate plans, progress and the scanner on this.
func (p *Profile) IsComplete() bool {
	return p != nil &&
		p.Name != "" &&
		p.Height != 0 &&
		p.Weight != 0 &&
		p.Age != 0 &&
		p.Gender != "" &&
		p.TrainingStyle != "" &&
		p.Goal != ""
}

// Validate checks a profile submitted through setup or edit.
func (p *Profile) Validate() error {
	if !p.IsComplete() {
		return fmt.Errorf("%w: all required fields must be filled", ErrInvalidProfile)
	}
	if p.Height <= 0 || p.Weight <= 0 || p.Age <= 0 {
		return fmt.Errorf("%w: height, weight and age must be positive", ErrInvalidProfile)
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return fmt.Errorf("%w: unknown gender %s", ErrInvalidProfile, string(p.Gender))
	}
	switch p.TrainingStyle {
	case TrainingHome, TrainingGym, TrainingCalisthenics:
	default:
		return fmt.Errorf("%w: unknown training style %s", ErrInvalidProfile, string(p.TrainingStyle))
	}
	switch p.Goal {
	case GoalLose, GoalMaintain, GoalGain:
	default:
		return fmt.Errorf("%w: unknown goal %s", ErrInvalidProfile, string(p.Goal))
	}
	if p.BodyFatPercentage != nil && (*p.BodyFatPercentage <= 0 || *p.BodyFatPercentage >= 100) {
		return fmt.Errorf("%w: body fat percentage must be between 0 and 100", ErrInvalidProfile)
	}
	return nil
}
