package screen

import (
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/explain"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/settings"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/layout"
)

// Env carries the services shared by the screens.
type Env struct {
	Bank      *bank.Bank
	Progress  store.ProgressRepo
	Stats     store.StatsRepo
	Settings  settings.Settings
	Explainer *explain.Service

	// NewRunner returns a fresh runner for each session.
	NewRunner func() *session.Runner

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Now returns the current time from the environment's clock.
func (e *Env) Now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// StatusMsg updates the learner status shown in the header.
type StatusMsg layout.Status
