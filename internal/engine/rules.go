package engine

import (
	"fmt"
	"time"
)

// Rules configures gravity and lock timing for a controller.
type Rules struct {
	Spawn Vec // pivot cell for new pieces

	FallSpeed     float64 // cells per second under gravity
	SoftDropSpeed float64 // cells per second while soft drop is held

	MoveAllowance   int           // accepted moves while grounded before auto-lock
	RotateAllowance int           // accepted rotations while grounded before auto-lock
	InactivityLock  time.Duration // grounded time without an accepted action before auto-lock

	DisableGravity   bool // pieces only fall on soft or hard drop
	AllowUpMove      bool // pieces may be nudged up, never past the visible top
	HardDropOnlyLock bool // no auto-lock of any kind; only hard drop locks
}

// DefaultRules returns marathon-style rules for a standard board.
func DefaultRules() Rules {
	return Rules{
		Spawn:           Vec{X: 4, Y: DefaultVisible},
		FallSpeed:       1,
		SoftDropSpeed:   12,
		MoveAllowance:   14,
		RotateAllowance: 15,
		InactivityLock:  900 * time.Millisecond,
	}
}

// TechniqueRules returns the rules used by drill modes: no gravity, upward
// nudges allowed and locking only on hard drop.
func TechniqueRules() Rules {
	r := DefaultRules()
	r.DisableGravity = true
	r.AllowUpMove = true
	r.HardDropOnlyLock = true
	return r
}

// Validate checks the rules against a board.
func (r Rules) Validate(b *Board) error {
	if b == nil {
		return fmt.Errorf("engine: nil board: %w", ErrInvalidConfig)
	}
	if !b.InBounds(r.Spawn.X, r.Spawn.Y) {
		return fmt.Errorf("engine: spawn %v outside %dx%d board: %w", r.Spawn, b.Width(), b.Height(), ErrInvalidConfig)
	}
	if r.FallSpeed < 0 || r.SoftDropSpeed < 0 {
		return fmt.Errorf("engine: negative fall speed: %w", ErrInvalidConfig)
	}
	if r.MoveAllowance < 0 || r.RotateAllowance < 0 {
		return fmt.Errorf("engine: negative grounded allowance: %w", ErrInvalidConfig)
	}
	if r.InactivityLock < 0 {
		return fmt.Errorf("engine: negative inactivity lock: %w", ErrInvalidConfig)
	}
	return nil
}
