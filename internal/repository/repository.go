package repository

import (
	"context"
	"strings"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Gateway is the durable key -> JSON value store the engine mirrors its state to.
// Implementations must return ErrNotFound from Get for a missing key and
// treat Delete of a missing key as success.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entity key suffixes.
const (
	KeyProfile     = "profile"
	KeyWorkoutPlan = "workout-plan"
	KeyMealPlan    = "meal-plan"
	KeyReminders   = "reminders"
	keyProgress    = "progress-"
)

// Keys builds namespaced gateway keys, e.g. "nutriai-progress-2024-05-01".
type Keys struct {
	Namespace string
}

func (k Keys) key(suffix string) string {
	ns := strings.TrimSuffix(k.Namespace, "-")
	if ns == "" {
		return suffix
	}
	return ns + "-" + suffix
}

func (k Keys) Profile() string     { return k.key(KeyProfile) }
func (k Keys) WorkoutPlan() string { return k.key(KeyWorkoutPlan) }
func (k Keys) MealPlan() string    { return k.key(KeyMealPlan) }
func (k Keys) Reminders() string   { return k.key(KeyReminders) }

// Progress returns the key of the ledger record for an ISO date.
func (k Keys) Progress(date string) string { return k.key(keyProgress + date) }
