package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lamx12/nutri-plan/internal/config"
	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/logging"
)

func testProfile() *domain.Profile {
	return &domain.Profile{
		Name: "Alex", Height: 170, Weight: 70, Age: 30,
		Gender: domain.GenderMale, TrainingStyle: domain.TrainingGym, Goal: domain.GoalLose,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(config.InferenceConfig{
		Endpoint:    srv.URL,
		Token:       "opaque-token",
		Timeout:     5 * time.Second,
		Temperature: 0.7,
	}, nil, logging.Component(logging.Discard(), "inference"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func generated(text string) []byte {
	raw, _ := json.Marshal([]generation{{GeneratedText: text}})
	return raw
}

func TestInferPlansSendsRequest(t *testing.T) {
	var got Request
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write(generated("Plan follows " + validPlans))
	})

	workouts, meals, err := c.InferPlans(context.Background(), testProfile(), 2007, domain.MacroTarget{Protein: 201, Carbs: 125, Fat: 78})
	if err != nil {
		t.Fatalf("InferPlans: %v", err)
	}
	if len(workouts) != 1 || len(meals) != 1 {
		t.Errorf("plans = %d workouts, %d meals", len(workouts), len(meals))
	}
	if auth != "Bearer opaque-token" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Parameters.MaxNewTokens != 2000 || got.Parameters.Temperature != 0.7 || got.Parameters.ReturnFullText {
		t.Errorf("parameters = %+v", got.Parameters)
	}
	if !strings.Contains(got.Inputs, "2007 calories") || !strings.Contains(got.Inputs, "lose weight") {
		t.Errorf("prompt does not describe the targets:\n%s", got.Inputs)
	}
}

func TestInferPlansErrors(t *testing.T) {
	cases := map[string]struct {
		handler http.HandlerFunc
		want    error
	}{
		"server error": {func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"loading"}`))
		}, ErrBadStatus},
		"empty list": {func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}, ErrEmptyResponse},
		"not a list": {func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"generated_text":"x"}`))
		}, ErrEmptyResponse},
		"prose only": {func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(generated("I'm sorry, I can't do that."))
		}, ErrNoJSON},
		"bad shape": {func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(generated(`{"workoutPlan":[],"mealPlan":[]}`))
		}, ErrMalformedPlans},
	}
	for name, tc := range cases {
		c := newTestClient(t, tc.handler)
		if _, _, err := c.InferPlans(context.Background(), testProfile(), 2000, domain.MacroTarget{}); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", name, err, tc.want)
		}
	}
}

func TestInferPlansUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(config.InferenceConfig{Endpoint: url}, nil, logging.Component(logging.Discard(), "inference"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.InferPlans(context.Background(), testProfile(), 2000, domain.MacroTarget{}); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("err = %v, want ErrRequestFailed", err)
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient(config.InferenceConfig{}, nil, nil); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("err = %v, want ErrNoEndpoint", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := testProfile()
	p.Goal = domain.GoalGain
	prompt := BuildPrompt(p, 2807, domain.MacroTarget{Protein: 211, Carbs: 351, Fat: 62})
	for _, want := range []string{"30 year old male", "height 170cm", "weight 70kg", "gain muscle", "gym training", "Protein: 211g", "JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
