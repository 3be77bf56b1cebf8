package engine

import (
	"fmt"
	"math/rand"
)

// RandomizerOptions configures piece generation.
type RandomizerOptions struct {
	// Shapes is the set shuffled into each bag. Empty means all seven.
	Shapes []Shape
	// Sequence is dealt before anything else, in order.
	Sequence []Shape
	// Single, when set, replaces the bag with an endless run of one shape.
	Single *Shape
}

// HoldResult describes a successful hold request.
type HoldResult struct {
	// Spawn is the shape that becomes active.
	Spawn Shape
	// Released is true when Spawn came out of the hold slot.
	Released bool
}

// Randomizer deals upcoming shapes from a shuffled bag and owns the hold slot.
type Randomizer struct {
	rng      *rand.Rand
	shapes   []Shape
	bag      []Shape
	sequence []Shape
	single   *Shape

	held    Shape
	hasHeld bool
	canHold bool
}

// NewRandomizer creates a randomizer seeded for deterministic play.
func NewRandomizer(seed int64, opts RandomizerOptions) (*Randomizer, error) {
	shapes := opts.Shapes
	if shapes == nil {
		shapes = AllShapes
	}
	if len(shapes) == 0 {
		return nil, fmt.Errorf("engine: randomizer needs at least one shape: %w", ErrInvalidConfig)
	}
	for _, s := range shapes {
		if !s.Valid() {
			return nil, fmt.Errorf("engine: shape %d out of range: %w", s, ErrInvalidConfig)
		}
	}
	if opts.Single != nil && !opts.Single.Valid() {
		return nil, fmt.Errorf("engine: single shape %d out of range: %w", *opts.Single, ErrInvalidConfig)
	}

	r := &Randomizer{
		rng:      rand.New(rand.NewSource(seed)),
		shapes:   append([]Shape(nil), shapes...),
		sequence: append([]Shape(nil), opts.Sequence...),
		single:   opts.Single,
		canHold:  true,
	}
	r.refill()
	r.refill()
	return r, nil
}

// refill appends one shuffled permutation of the shape set to the bag.
func (r *Randomizer) refill() {
	perm := append([]Shape(nil), r.shapes...)
	// Fisher-Yates
	for i := len(perm) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	r.bag = append(r.bag, perm...)
}

func (r *Randomizer) topUp() {
	for len(r.bag) <= len(r.shapes) {
		r.refill()
	}
}

// Enqueue appends shapes to the scripted sequence.
func (r *Randomizer) Enqueue(shapes ...Shape) {
	r.sequence = append(r.sequence, shapes...)
}

// Next dequeues the next shape: scripted sequence first, then the single
// shape if set, then the bag.
func (r *Randomizer) Next() Shape {
	if len(r.sequence) > 0 {
		s := r.sequence[0]
		r.sequence = r.sequence[1:]
		return s
	}
	if r.single != nil {
		return *r.single
	}
	r.topUp()
	s := r.bag[0]
	r.bag = r.bag[1:]
	r.topUp()
	return s
}

// PeekUpcoming returns the next n shapes without consuming them.
func (r *Randomizer) PeekUpcoming(n int) []Shape {
	if n <= 0 {
		return nil
	}
	out := make([]Shape, 0, n)
	for _, s := range r.sequence {
		if len(out) == n {
			return out
		}
		out = append(out, s)
	}
	if r.single != nil {
		for len(out) < n {
			out = append(out, *r.single)
		}
		return out
	}
	for len(r.bag) < n-len(out) {
		r.refill()
	}
	out = append(out, r.bag[:n-len(out)]...)
	return out
}

// RequestHold swaps active into the hold slot. It fails when hold was already
// used since the last spawn. The first hold draws the replacement with Next.
func (r *Randomizer) RequestHold(active Shape) (HoldResult, bool) {
	if !r.canHold {
		return HoldResult{}, false
	}
	r.canHold = false

	if !r.hasHeld {
		r.held = active
		r.hasHeld = true
		return HoldResult{Spawn: r.Next()}, true
	}

	out := r.held
	r.held = active
	return HoldResult{Spawn: out, Released: true}, true
}

// ResetHold makes hold usable again. Called once per normal spawn.
func (r *Randomizer) ResetHold() {
	r.canHold = true
}

// Held returns the held shape, if any.
func (r *Randomizer) Held() (Shape, bool) {
	return r.held, r.hasHeld
}

// CanHold reports whether a hold request would succeed.
func (r *Randomizer) CanHold() bool {
	return r.canHold
}
