// Package quota implements per-client daily usage tracking for the two
// metered actions of the gateway: palette generation and chat revision.
// Allowances live in a rolling window and reset lazily; no background timer
// is involved in the reset itself, only in sweeping long-dead entries.
package quota

import (
	"context"
	"time"
)

// Action identifies which allowance a request consumes.
type Action string

const (
	ActionGeneration Action = "generation"
	ActionRevision   Action = "revision"
)

// Limits holds the per-client caps and the rolling window length. These are
// configuration values, not business constants.
type Limits struct {
	DailyGenerations int
	DailyRevisions   int
	Window           time.Duration
}

// Status is the read-only view of a client's remaining allowances.
type Status struct {
	GenerationsRemaining int
	RevisionsRemaining   int
	ResetTime            time.Time
}

// Store tracks per-client allowances. The in-memory implementation is the
// default; a Redis-backed one exists for deployments that run more than one
// gateway instance.
//
// Check and Status are deliberately asymmetric: Check commits a lazy reset
// when the window has passed and consumes one unit, while Status only
// computes the as-if-reset view and never mutates stored state. A status
// read must never change what a subsequent consuming call observes.
type Store interface {
	// Check consumes one unit of the given action for clientID. It returns
	// whether the request is allowed and the remaining count after the
	// call. An exhausted counter returns (false, 0) without mutation.
	Check(ctx context.Context, clientID string, action Action) (allowed bool, remaining int, err error)

	// Status reports remaining allowances without consuming anything.
	Status(ctx context.Context, clientID string) (Status, error)

	// SweepExpired drops entries whose window has fully elapsed and
	// returns how many were removed. Dropping an entry is equivalent to
	// the reset the next Check would commit anyway.
	SweepExpired(ctx context.Context) (int, error)

	Close() error
}
