package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"

	"taskflow-project/dashboard-service/logging"
)

const (
	AccountsCollection = "accounts"
	ProjectsCollection = "projects"
	TasksCollection    = "tasks"
)

// Store is the shared access path to MongoDB. Every call gets its own
// deadline and passes through the circuit breaker; nothing is retried.
type Store struct {
	db      *mongo.Database
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewStore(db *mongo.Database, breaker *gobreaker.CircuitBreaker, timeout time.Duration) *Store {
	return &Store{db: db, breaker: breaker, timeout: timeout}
}

// NewBreaker builds the breaker guarding a store. Only ErrUnavailable
// counts as a failure; not-found and duplicates are normal answers.
func NewBreaker(name string, maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrUnavailable) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Ping is used by the health check.
func (s *Store) Ping(ctx context.Context) error {
	return s.run(ctx, "ping", func(ctx context.Context) error {
		return s.db.Client().Ping(ctx, nil)
	})
}

func (s *Store) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, classify(op, fn(ctx))
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Logger.Warnf("Event ID: STORE_BREAKER_REJECTED, Description: %s rejected by circuit breaker: %v", op, err)
		return errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
	}
	return err
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		logging.Logger.Errorf("Event ID: STORE_UNAVAILABLE, Description: %s failed: %v", op, err)
		// the driver error stays in the chain, IsSuccessful looks for context.Canceled
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	logging.Logger.Errorf("Event ID: STORE_ERROR, Description: %s failed: %v", op, err)
	return errors.Wrap(err, op)
}
