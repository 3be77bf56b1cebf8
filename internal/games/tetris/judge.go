package tetris

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/engine"
)

// Outcome is a judge's view of the run.
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeCleared         // goal reached
	OutcomeRetry           // strict drill missed, restart the layout
)

// Judge decides when a mode is won. Judges listen to locks and halt the
// controller when the run is decided.
type Judge interface {
	engine.LockListener
	Outcome() Outcome
	// HUD returns short status lines for the side panel.
	HUD(elapsed time.Duration) []string
	// Verdict rates a cleared run.
	Verdict(elapsed time.Duration) Verdict
}

// Verdict is the end-of-run rating shown on the clear screen.
type Verdict struct {
	Tier     int // 0 (worst) to 4 (best)
	Headline string
	Comment  string
}

var tierComments = [5]string{
	"Rough run. The stack won this time.",
	"Keep at it, the shape is there.",
	"Decent. Cleaner finesse will shave time.",
	"Sharp play.",
	"Flawless pace.",
}

// tierByTime rates seconds against descending bounds: at or over bounds[0]
// is tier 0, over bounds[3] is tier 3, anything faster is tier 4.
func tierByTime(seconds float64, bounds [4]float64) int {
	if seconds >= bounds[0] {
		return 0
	}
	for i := 1; i < len(bounds); i++ {
		if seconds > bounds[i] {
			return i
		}
	}
	return 4
}

func formatClock(d time.Duration) string {
	secs := d.Seconds()
	minutes := int(secs) / 60
	return fmt.Sprintf("%d:%05.2f", minutes, secs-float64(minutes*60))
}

// LineTargetJudge ends the run once enough lines are cleared.
type LineTargetJudge struct {
	target  int
	lines   int
	pieces  int
	outcome Outcome
	halt    func()
}

// NewLineTargetJudge creates a judge for a line race. halt is called once
// when the target is reached.
func NewLineTargetJudge(target int, halt func()) *LineTargetJudge {
	return &LineTargetJudge{target: target, halt: halt}
}

// OnPieceLocked counts pieces and lines.
func (j *LineTargetJudge) OnPieceLocked(info engine.LockInfo) {
	if j.outcome != OutcomePlaying {
		return
	}
	j.pieces++
	j.lines += info.Lines
	if j.lines >= j.target {
		j.outcome = OutcomeCleared
		j.halt()
	}
}

// Outcome implements Judge.
func (j *LineTargetJudge) Outcome() Outcome { return j.outcome }

// Remaining returns the lines still needed.
func (j *LineTargetJudge) Remaining() int { return max(j.target-j.lines, 0) }

// PPS returns locked pieces per second.
func (j *LineTargetJudge) PPS(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(j.pieces) / elapsed.Seconds()
}

// HUD implements Judge.
func (j *LineTargetJudge) HUD(elapsed time.Duration) []string {
	return []string{
		"LEFT",
		fmt.Sprintf("%d", j.Remaining()),
		"PPS",
		fmt.Sprintf("%.2f", j.PPS(elapsed)),
	}
}

// Verdict implements Judge.
func (j *LineTargetJudge) Verdict(elapsed time.Duration) Verdict {
	tier := tierByTime(elapsed.Seconds(), [4]float64{180, 120, 90, 60})
	return Verdict{
		Tier:     tier,
		Headline: fmt.Sprintf("%d LINES IN %s", j.target, formatClock(elapsed)),
		Comment:  tierComments[tier],
	}
}

// TechniqueJudge watches for one spin technique, such as a T-spin double.
type TechniqueJudge struct {
	tech        config.Technique
	shapes      []engine.Shape
	strict      bool
	requireSpin bool
	attempts    int
	outcome     Outcome
	halt        func()
}

// NewTechniqueJudge creates a drill judge. In strict mode any attempt with a
// target piece that misses the technique asks for a retry.
func NewTechniqueJudge(tech config.Technique, strict, requireSpin bool, halt func()) (*TechniqueJudge, error) {
	shapes, err := engine.ParseSequence(tech.Shapes)
	if err != nil {
		return nil, err
	}
	return &TechniqueJudge{
		tech:        tech,
		shapes:      shapes,
		strict:      strict,
		requireSpin: requireSpin,
		halt:        halt,
	}, nil
}

func (j *TechniqueJudge) isTarget(s engine.Shape) bool {
	for _, t := range j.shapes {
		if t == s {
			return true
		}
	}
	return false
}

// OnPieceLocked rates each lock of a target piece.
func (j *TechniqueJudge) OnPieceLocked(info engine.LockInfo) {
	if j.outcome != OutcomePlaying || !j.isTarget(info.Shape) {
		return
	}
	j.attempts++
	if info.Lines == j.tech.Lines && (info.Spin || !j.requireSpin) {
		j.outcome = OutcomeCleared
		j.halt()
		return
	}
	if j.strict {
		j.outcome = OutcomeRetry
		j.halt()
	}
}

// Outcome implements Judge.
func (j *TechniqueJudge) Outcome() Outcome { return j.outcome }

// HUD implements Judge.
func (j *TechniqueJudge) HUD(time.Duration) []string {
	goal := strings.ToUpper(j.tech.Name)
	lines := []string{"GOAL"}
	lines = append(lines, strings.Fields(goal)...)
	return append(lines, "TRIES", fmt.Sprintf("%d", j.attempts))
}

// Verdict implements Judge.
func (j *TechniqueJudge) Verdict(elapsed time.Duration) Verdict {
	bounds := [4]float64{180, 120, 60, 30}
	if j.strict {
		bounds = [4]float64{60, 30, 20, 10}
	}
	tier := tierByTime(elapsed.Seconds(), bounds)
	return Verdict{
		Tier:     tier,
		Headline: fmt.Sprintf("%s IN %.2fs", strings.ToUpper(j.tech.Name), elapsed.Seconds()),
		Comment:  tierComments[tier],
	}
}

// ComboJudge counts consecutive line-clearing locks (REN). The drill is won
// on the first non-clearing lock once the longest chain meets the requirement.
type ComboJudge struct {
	required int
	current  int
	best     int
	outcome  Outcome
	halt     func()
}

// NewComboJudge creates a REN judge. A requirement of zero accepts any chain.
func NewComboJudge(required int, halt func()) *ComboJudge {
	return &ComboJudge{required: max(required, 0), halt: halt}
}

// OnPieceLocked extends or ends the chain.
func (j *ComboJudge) OnPieceLocked(info engine.LockInfo) {
	if j.outcome != OutcomePlaying {
		return
	}
	if info.Lines > 0 {
		j.current++
		j.best = max(j.best, j.current)
		return
	}
	j.current = 0
	if j.best >= j.required {
		j.outcome = OutcomeCleared
		j.halt()
	}
}

// Outcome implements Judge.
func (j *ComboJudge) Outcome() Outcome { return j.outcome }

// Current returns the running chain length.
func (j *ComboJudge) Current() int { return j.current }

// Best returns the longest chain so far.
func (j *ComboJudge) Best() int { return j.best }

// HUD implements Judge.
func (j *ComboJudge) HUD(time.Duration) []string {
	return []string{
		"REN", fmt.Sprintf("%d", j.current),
		"BEST", fmt.Sprintf("%d", j.best),
		"GOAL", fmt.Sprintf("%d", j.required),
	}
}

// Verdict implements Judge.
func (j *ComboJudge) Verdict(time.Duration) Verdict {
	var tier int
	switch {
	case j.best == 0:
		tier = 0
	case j.best <= 3:
		tier = 1
	case j.best <= 5:
		tier = 2
	case j.best <= 10:
		tier = 3
	default:
		tier = 4
	}
	return Verdict{
		Tier:     tier,
		Headline: fmt.Sprintf("%d REN", j.best),
		Comment:  tierComments[tier],
	}
}
