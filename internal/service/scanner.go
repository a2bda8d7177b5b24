package service

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"

	"lamx12/nutri-plan/internal/domain"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownFood    = errors.New("food item is not in the catalog")
	ErrEmptyImage     = errors.New("image reference is empty")
	ErrInvalidPortion = errors.New("portion must be a positive number of grams")
)

// foodCatalog lists what the scanner can recognise, per 100 g.
var foodCatalog = []domain.FoodItem{
	{Name: "Grilled Chicken Breast", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	{Name: "Salmon Fillet", Calories: 233, Protein: 25, Carbs: 0, Fat: 15},
	{Name: "Greek Yogurt", Calories: 100, Protein: 10, Carbs: 4, Fat: 5},
	{Name: "Avocado Toast", Calories: 210, Protein: 5, Carbs: 25, Fat: 10},
	{Name: "Banana Smoothie", Calories: 180, Protein: 4, Carbs: 38, Fat: 2},
}

// Portion is a catalog item scaled to an eaten amount.
type Portion struct {
	Name     string  `json:"name"`
	Grams    float64 `json:"grams"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodScanner turns a photo or a manual entry into ledger intake.
// Identify is a deterministic stand-in; there is no image recognition.
type FoodScanner interface {
	Catalog() []domain.FoodItem
	Lookup(name string) (domain.FoodItem, error)
	Identify(imageRef string) (domain.FoodItem, error)
	Portion(item domain.FoodItem, grams float64) (Portion, error)
	LogFood(ctx context.Context, item domain.FoodItem, grams float64) (domain.DailyProgress, error)
	LogManual(ctx context.Context, calories, protein, carbs, fat float64) (domain.DailyProgress, error)
}

type foodScanner struct {
	profiles ProfileService
	progress ProgressService
	log      *logrus.Entry
}

func NewFoodScanner(profiles ProfileService, progress ProgressService, log *logrus.Entry) FoodScanner {
	return &foodScanner{profiles: profiles, progress: progress, log: log}
}

func (s *foodScanner) Catalog() []domain.FoodItem {
	return append([]domain.FoodItem(nil), foodCatalog...)
}

// Lookup matches a catalog name case-insensitively.
func (s *foodScanner) Lookup(name string) (domain.FoodItem, error) {
	name = strings.TrimSpace(name)
	for _, item := range foodCatalog {
		if strings.EqualFold(item.Name, name) {
			return item, nil
		}
	}
	return domain.FoodItem{}, ErrUnknownFood
}

// Identify maps the same image reference to the same catalog item every time.
func (s *foodScanner) Identify(imageRef string) (domain.FoodItem, error) {
	if strings.TrimSpace(imageRef) == "" {
		return domain.FoodItem{}, ErrEmptyImage
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(imageRef))
	return foodCatalog[h.Sum32()%uint32(len(foodCatalog))], nil
}

func (s *foodScanner) Portion(item domain.FoodItem, grams float64) (Portion, error) {
	if !(grams > 0) || math.IsInf(grams, 0) {
		return Portion{}, ErrInvalidPortion
	}
	f := grams / 100
	return Portion{
		Name:     item.Name,
		Grams:    grams,
		Calories: round(item.Calories * f),
		Protein:  roundTenth(item.Protein * f),
		Carbs:    roundTenth(item.Carbs * f),
		Fat:      roundTenth(item.Fat * f),
	}, nil
}

func roundTenth(v float64) float64 {
	return float64(round(v*10)) / 10
}

func (s *foodScanner) LogFood(ctx context.Context, item domain.FoodItem, grams float64) (domain.DailyProgress, error) {
	portion, err := s.Portion(item, grams)
	if err != nil {
		return domain.DailyProgress{}, err
	}
	s.log.WithFields(logrus.Fields{"food": portion.Name, "grams": grams}).Debug("logging scanned food")
	return s.LogManual(ctx, float64(portion.Calories), portion.Protein, portion.Carbs, portion.Fat)
}

func (s *foodScanner) LogManual(ctx context.Context, calories, protein, carbs, fat float64) (domain.DailyProgress, error) {
	if !s.profiles.IsComplete() {
		return domain.DailyProgress{}, ErrProfileIncomplete
	}
	if !validAmount(calories) || !validAmount(protein) || !validAmount(carbs) || !validAmount(fat) {
		return domain.DailyProgress{}, ErrInvalidIntake
	}
	if _, err := s.progress.AddCalories(ctx, calories); err != nil {
		return domain.DailyProgress{}, err
	}
	return s.progress.AddMacros(ctx, protein, carbs, fat)
}
