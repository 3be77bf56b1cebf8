package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Difficulty selects a computer player profile.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts "easy", "normal" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "normal", "":
		return Normal, nil
	case "hard":
		return Hard, nil
	}
	return Normal, fmt.Errorf("engine: unknown difficulty %q: %w", s, ErrInvalidConfig)
}

// Weights scale the board features into a single score.
type Weights struct {
	Lines     float64
	Holes     float64
	AggHeight float64
	Bumpiness float64
	MaxHeight float64
}

// Score combines features: lines are rewarded, everything else penalised.
func (w Weights) Score(f Features) float64 {
	return w.Lines*float64(f.Lines) -
		w.Holes*float64(f.Holes) -
		w.AggHeight*float64(f.AggHeight) -
		w.Bumpiness*float64(f.Bumpiness) -
		w.MaxHeight*float64(f.MaxHeight)
}

// Profile is the full tuning of a computer player.
type Profile struct {
	Think       time.Duration // delay before searching a new piece
	TopK        int           // pick uniformly among this many best plans
	Stride      int           // column sampling step
	Weights     Weights
	RotateDelay time.Duration
	MoveDelay   time.Duration
	DropDelay   time.Duration
}

// ProfileFor returns the tuning for d.
func ProfileFor(d Difficulty) Profile {
	switch d {
	case Easy:
		return Profile{
			Think:       550 * time.Millisecond,
			TopK:        6,
			Stride:      2,
			Weights:     Weights{Lines: 1.0, Holes: 2.5, AggHeight: 0.35, Bumpiness: 0.25, MaxHeight: 0.8},
			RotateDelay: 240 * time.Millisecond,
			MoveDelay:   120 * time.Millisecond,
			DropDelay:   200 * time.Millisecond,
		}
	case Hard:
		return Profile{
			Think:       80 * time.Millisecond,
			TopK:        1,
			Stride:      1,
			Weights:     Weights{Lines: 1.4, Holes: 6.0, AggHeight: 0.55, Bumpiness: 0.45, MaxHeight: 1.2},
			RotateDelay: 20 * time.Millisecond,
			MoveDelay:   10 * time.Millisecond,
			DropDelay:   20 * time.Millisecond,
		}
	default:
		return Profile{
			Think:       250 * time.Millisecond,
			TopK:        3,
			Stride:      1,
			Weights:     Weights{Lines: 1.2, Holes: 4.0, AggHeight: 0.45, Bumpiness: 0.35, MaxHeight: 1.0},
			RotateDelay: 100 * time.Millisecond,
			MoveDelay:   40 * time.Millisecond,
			DropDelay:   100 * time.Millisecond,
		}
	}
}

// Features are the board measurements used by the heuristic.
type Features struct {
	Lines     int // rows completely filled
	Holes     int // empty cells below the top block of their column
	AggHeight int // sum of column heights
	Bumpiness int // sum of height differences between neighbouring columns
	MaxHeight int
}

// Measure computes features of an occupancy snapshot.
func Measure(occ Occupancy) Features {
	var f Features
	for y := 0; y < occ.Height; y++ {
		full := true
		for x := 0; x < occ.Width; x++ {
			if !occ.At(x, y) {
				full = false
				break
			}
		}
		if full {
			f.Lines++
		}
	}

	prev := 0
	for x := 0; x < occ.Width; x++ {
		height := 0
		for y := occ.Height - 1; y >= 0; y-- {
			switch {
			case occ.At(x, y) && height == 0:
				height = y + 1
			case !occ.At(x, y) && height > 0:
				f.Holes++
			}
		}
		f.AggHeight += height
		f.MaxHeight = max(f.MaxHeight, height)
		if x > 0 {
			f.Bumpiness += abs(height - prev)
		}
		prev = height
	}
	return f
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Plan is a placement: rotate clockwise Rotations times, then slide the pivot to TargetX.
type Plan struct {
	Rotations int
	TargetX   int
}

// Candidate is a scored plan.
type Candidate struct {
	Plan     Plan
	Score    float64
	Features Features
	Landing  Piece
}

// Search scores every rotation and sampled column for p on b. The board is
// only queried; all trials run on copies of p.
func Search(b *Board, p Piece, prof Profile) []Candidate {
	stride := max(prof.Stride, 1)
	var out []Candidate
	for r := range 4 {
		for tx := 0; tx < b.Width(); tx += stride {
			trial, ok := rotateTimes(b, p, r)
			if !ok {
				continue
			}
			trial = slideTo(b, trial, tx, 40)
			landing := dropped(b, trial)

			occ := b.Occupancy()
			for _, c := range landing.Cells() {
				occ.Fill(c.X, c.Y)
			}
			f := Measure(occ)
			out = append(out, Candidate{
				Plan:     Plan{Rotations: r, TargetX: tx},
				Score:    prof.Weights.Score(f),
				Features: f,
				Landing:  landing,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func rotateTimes(b *Board, p Piece, n int) (Piece, bool) {
	for range n {
		var ok bool
		if p, ok = RotateWithKicks(b, p, CW); !ok {
			return p, false
		}
	}
	return p, true
}

// slideTo moves p one column at a time toward pivot column tx, stopping early when blocked.
func slideTo(b *Board, p Piece, tx, limit int) Piece {
	for range limit {
		if p.Pivot.X == tx {
			break
		}
		step := Right
		if tx < p.Pivot.X {
			step = Left
		}
		if !b.IsValid(p, step) {
			break
		}
		p = p.Moved(step)
	}
	return p
}

func dropped(b *Board, p Piece) Piece {
	for b.IsValid(p, Down) {
		p = p.Moved(Down)
	}
	return p
}

type cpuPhase int

const (
	phaseIdle cpuPhase = iota
	phaseThink
	phaseRotate
	phaseMove
	phaseDrop
)

// ComputerPlayer drives a Controller through the same move, rotate and drop
// calls as a human, spacing its actions by profile delays.
type ComputerPlayer struct {
	ctrl    *Controller
	profile Profile
	rng     *rand.Rand

	serial  int
	phase   cpuPhase
	wait    time.Duration
	plan    Plan
	rotated int
	moves   int
}

// NewComputerPlayer attaches a player with difficulty d to ctrl.
func NewComputerPlayer(ctrl *Controller, d Difficulty, seed int64) (*ComputerPlayer, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("engine: computer player needs a controller: %w", ErrInvalidConfig)
	}
	return &ComputerPlayer{
		ctrl:    ctrl,
		profile: ProfileFor(d),
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Profile returns the active tuning.
func (cp *ComputerPlayer) Profile() Profile { return cp.profile }

// Plan returns the plan being executed for the current piece.
func (cp *ComputerPlayer) Plan() (Plan, bool) {
	return cp.plan, cp.phase > phaseThink
}

// Choose searches the active piece and picks uniformly among the TopK best plans.
func (cp *ComputerPlayer) Choose() (Plan, bool) {
	p, ok := cp.ctrl.Active()
	if !ok {
		return Plan{}, false
	}
	cands := Search(cp.ctrl.Board(), p, cp.profile)
	if len(cands) == 0 {
		return Plan{}, false
	}
	k := min(max(cp.profile.TopK, 1), len(cands))
	return cands[cp.rng.Intn(k)].Plan, true
}

// Advance runs the player's schedule for dt. Nothing happens while the
// controller is paused, so every pending delay is frozen.
func (cp *ComputerPlayer) Advance(dt time.Duration) {
	if cp.ctrl.Paused() {
		return
	}
	p, ok := cp.ctrl.Active()
	if !ok {
		return
	}
	if s := cp.ctrl.Spawns(); s != cp.serial {
		cp.serial = s
		cp.phase = phaseThink
		cp.wait = cp.profile.Think
		cp.rotated = 0
		cp.moves = 0
	}

	cp.wait -= dt
	for cp.wait <= 0 && cp.phase != phaseIdle {
		switch cp.phase {
		case phaseThink:
			plan, found := cp.Choose()
			if !found {
				cp.phase = phaseIdle
				return
			}
			cp.plan = plan
			cp.phase = phaseRotate

		case phaseRotate:
			if cp.rotated >= cp.plan.Rotations {
				cp.phase = phaseMove
				continue
			}
			cp.ctrl.TryRotate(CW)
			cp.rotated++
			cp.wait += cp.profile.RotateDelay

		case phaseMove:
			p, ok = cp.ctrl.Active()
			if !ok {
				cp.phase = phaseIdle
				return
			}
			step := Right
			if cp.plan.TargetX < p.Pivot.X {
				step = Left
			}
			if p.Pivot.X == cp.plan.TargetX || cp.moves >= 60 || !cp.ctrl.TryMove(step) {
				cp.phase = phaseDrop
				cp.wait += cp.profile.DropDelay
				continue
			}
			cp.moves++
			cp.wait += cp.profile.MoveDelay

		case phaseDrop:
			cp.ctrl.HardDrop()
			cp.phase = phaseIdle
		}
	}
}
