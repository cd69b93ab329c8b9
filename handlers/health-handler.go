package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/pkg/errors"
)

// Pinger is any backing store the health report checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one store for the health report. Optional stores do
// not fail the report when they are down.
type HealthCheck struct {
	Name     string
	Store    Pinger
	Optional bool
}

func NewHealthHandler(version string, checks ...HealthCheck) (http.Handler, error) {
	h, err := health.New(health.WithComponent(health.Component{Name: "dashboard-service", Version: version}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create health checker")
	}

	for _, check := range checks {
		store := check.Store
		err := h.Register(health.Config{
			Name:      check.Name,
			Timeout:   2 * time.Second,
			SkipOnErr: check.Optional,
			Check: func(ctx context.Context) error {
				return store.Ping(ctx)
			},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to register %s health check", check.Name)
		}
	}

	return h.Handler(), nil
}
