package session

import (
	"sync"
	"testing"

	"lamx12/nutri-plan/internal/domain"
)

func TestProfileIsCopied(t *testing.T) {
	s := New()
	bf := 20.0
	in := &domain.Profile{Name: "Alex", BodyFatPercentage: &bf}
	s.SetProfile(in)

	in.Name = "changed"
	*in.BodyFatPercentage = 5
	out := s.Profile()
	if out.Name != "Alex" || *out.BodyFatPercentage != 20 {
		t.Errorf("state aliased the caller's profile: %+v", out)
	}

	out.Name = "changed"
	if s.Profile().Name != "Alex" {
		t.Error("Profile() exposed internal state")
	}
}

func TestPlansAreCopied(t *testing.T) {
	s := New()
	workouts := []domain.Workout{{Name: "A", Exercises: []domain.Exercise{{Name: "Squat"}}}}
	s.SetPlans(workouts, []domain.Meal{{Name: "Oats"}})

	got, meals := s.Plans()
	got[0].Exercises[0].Name = "changed"
	meals[0].Name = "changed"
	again, againMeals := s.Plans()
	if again[0].Exercises[0].Name != "Squat" || againMeals[0].Name != "Oats" {
		t.Error("Plans() exposed internal state")
	}
}

func TestUpdateToday(t *testing.T) {
	s := New()
	if _, ok := s.UpdateToday(func(*domain.DailyProgress) {}); ok {
		t.Fatal("update succeeded without a record")
	}
	s.SetToday(domain.NewDailyProgress("2024-05-01", 2000, domain.MacroTarget{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.UpdateToday(func(p *domain.DailyProgress) { p.Calories.Consumed += 10 })
		}()
	}
	wg.Wait()
	if got := s.Today().Calories.Consumed; got != 500 {
		t.Errorf("consumed = %v, want 500", got)
	}
}

func TestUpdateReminders(t *testing.T) {
	s := New()
	out := s.UpdateReminders(func(cur []domain.Reminder) []domain.Reminder {
		return append(cur, domain.Reminder{ID: "r1"})
	})
	out[0].ID = "changed"
	if s.Reminders()[0].ID != "r1" {
		t.Error("UpdateReminders returned internal slice")
	}
}
