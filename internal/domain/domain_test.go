package domain

import (
	"errors"
	"testing"
)

func validProfile() Profile {
	return Profile{
		Name: "Alex", Height: 170, Weight: 70, Age: 30,
		Gender: GenderMale, TrainingStyle: TrainingGym, Goal: GoalLose,
	}
}

func TestIsComplete(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.IsComplete() {
		t.Error("nil profile reported complete")
	}
	p := validProfile()
	if !p.IsComplete() {
		t.Error("valid profile reported incomplete")
	}

	blank := map[string]func(*Profile){
		"name":          func(p *Profile) { p.Name = "" },
		"height":        func(p *Profile) { p.Height = 0 },
		"weight":        func(p *Profile) { p.Weight = 0 },
		"age":           func(p *Profile) { p.Age = 0 },
		"gender":        func(p *Profile) { p.Gender = "" },
		"trainingStyle": func(p *Profile) { p.TrainingStyle = "" },
		"goal":          func(p *Profile) { p.Goal = "" },
	}
	for field, fn := range blank {
		p := validProfile()
		fn(&p)
		if p.IsComplete() {
			t.Errorf("profile without %s reported complete", field)
		}
	}
}

func TestValidate(t *testing.T) {
	p := validProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("valid profile: %v", err)
	}

	bf := 120.0
	invalid := map[string]func(*Profile){
		"missing name":    func(p *Profile) { p.Name = "" },
		"negative weight": func(p *Profile) { p.Weight = -70 },
		"unknown gender":  func(p *Profile) { p.Gender = "robot" },
		"unknown style":   func(p *Profile) { p.TrainingStyle = "crossfit" },
		"unknown goal":    func(p *Profile) { p.Goal = "shred" },
		"body fat range":  func(p *Profile) { p.BodyFatPercentage = &bf },
	}
	for name, fn := range invalid {
		p := validProfile()
		fn(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("%s: err = %v, want ErrInvalidProfile", name, err)
		}
	}
}

func TestNewDailyProgress(t *testing.T) {
	p := NewDailyProgress("2024-05-01", 2007, MacroTarget{Protein: 201, Carbs: 125, Fat: 78})
	if p.Date != "2024-05-01" || p.Calories.Target != 2007 || p.Macros.Fat.Target != 78 {
		t.Errorf("record = %+v", p)
	}
	if p.Calories.Consumed != 0 || p.Macros.Protein.Consumed != 0 || p.WorkoutCompleted {
		t.Errorf("consumption not zeroed: %+v", p)
	}
}
