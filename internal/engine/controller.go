package engine

import (
	"fmt"
	"time"
)

// Input is the player intent for one tick. Left, Right, Up, rotations, hard
// drop and hold are edge-triggered; SoftDrop is level-triggered (held).
type Input struct {
	Left, Right bool
	Up          bool
	RotateCW    bool
	RotateCCW   bool
	HardDrop    bool
	SoftDrop    bool
	Hold        bool
}

// Controller is the active piece state machine. It owns the spawn, move,
// rotate and lock lifecycle of one piece at a time on a shared Board.
type Controller struct {
	board     *Board
	rnd       *Randomizer
	rules     Rules
	listeners []LockListener

	piece        Piece
	active       bool
	locked       bool
	spawnPending bool
	toppedOut    bool
	halted       bool
	paused       bool
	hardDropped  bool
	lastRotation bool

	// grounded episode
	grounded    bool
	movesLeft   int
	rotatesLeft int
	idle        time.Duration

	fallAcc      float64
	softDropping bool

	spawns int
	pieces int
	lines  int
	events []Event
}

// NewController wires a controller to a board and randomizer. The first piece
// spawns on the first Advance (or an explicit Spawn).
func NewController(b *Board, r *Randomizer, rules Rules) (*Controller, error) {
	if r == nil {
		return nil, fmt.Errorf("engine: nil randomizer: %w", ErrInvalidConfig)
	}
	if err := rules.Validate(b); err != nil {
		return nil, err
	}
	return &Controller{
		board:        b,
		rnd:          r,
		rules:        rules,
		spawnPending: true,
	}, nil
}

// AddLockListener registers l for lock notifications.
func (c *Controller) AddLockListener(l LockListener) {
	c.listeners = append(c.listeners, l)
}

// Advance runs one tick: pending spawn, grounded refresh, input, gravity and
// auto-lock, in that order. It returns every event raised since the last call.
func (c *Controller) Advance(dt time.Duration, in Input) []Event {
	if c.paused || c.halted || c.toppedOut {
		return c.drain()
	}
	if c.spawnPending {
		c.Spawn()
	}
	if !c.canAct() {
		return c.drain()
	}

	if c.grounded {
		c.idle += dt
	}
	c.refreshGrounded()
	c.handleInput(in)

	if c.canAct() {
		c.fall(dt)
	}
	if c.canAct() {
		c.tryAutoLock()
	}
	return c.drain()
}

func (c *Controller) handleInput(in Input) {
	if in.Hold && c.Hold() {
		return
	}
	if in.Left {
		c.TryMove(Left)
	}
	if in.Right {
		c.TryMove(Right)
	}
	if in.Up && c.rules.AllowUpMove {
		c.TryMove(Up)
	}
	if in.RotateCW {
		c.TryRotate(CW)
	}
	if in.RotateCCW {
		c.TryRotate(CCW)
	}
	if in.HardDrop {
		c.HardDrop()
		return
	}
	if in.SoftDrop && !c.softDropping {
		c.TryMove(Down)
	}
	c.softDropping = in.SoftDrop
}

func (c *Controller) fall(dt time.Duration) {
	speed := c.rules.FallSpeed
	if c.rules.DisableGravity {
		speed = 0
	}
	if c.softDropping {
		speed = c.rules.SoftDropSpeed
	}
	c.fallAcc += speed * dt.Seconds()

	for c.fallAcc >= 1 {
		c.fallAcc--
		if c.board.IsValid(c.piece, Down) {
			c.piece = c.piece.Moved(Down)
			if c.softDropping {
				c.emit(Event{Type: EventMoved, Shape: c.piece.Shape})
			}
			continue
		}

		if !c.grounded {
			c.land()
		}
		if c.rules.HardDropOnlyLock {
			break
		}
		if c.depleted() {
			c.Lock()
			return
		}
		c.checkInactivity()
		break
	}

	if !c.rules.HardDropOnlyLock && c.canAct() {
		c.checkInactivity()
	}
}

func (c *Controller) refreshGrounded() {
	touching := !c.board.IsValid(c.piece, Down)
	switch {
	case touching && !c.grounded:
		c.land()
	case !touching:
		c.grounded = false
	}
}

// land starts a grounded episode.
func (c *Controller) land() {
	c.grounded = true
	c.movesLeft = c.rules.MoveAllowance
	c.rotatesLeft = c.rules.RotateAllowance
	c.idle = 0
}

func (c *Controller) depleted() bool {
	if c.rules.HardDropOnlyLock {
		return false
	}
	return c.movesLeft <= 0 || c.rotatesLeft <= 0
}

func (c *Controller) tryAutoLock() {
	if c.rules.HardDropOnlyLock {
		return
	}
	if c.depleted() && !c.board.IsValid(c.piece, Down) {
		c.Lock()
		return
	}
	c.checkInactivity()
}

func (c *Controller) checkInactivity() {
	if c.rules.HardDropOnlyLock || !c.grounded {
		return
	}
	if c.board.IsValid(c.piece, Down) {
		return
	}
	if c.idle >= c.rules.InactivityLock {
		c.Lock()
	}
}

// touched records an accepted player action while grounded.
func (c *Controller) touched(consume *int) {
	if !c.grounded || c.rules.HardDropOnlyLock {
		return
	}
	*consume--
	c.idle = 0
	c.tryAutoLock()
}

func (c *Controller) canAct() bool {
	return c.active && !c.locked && !c.paused && !c.halted && !c.toppedOut
}

// TryMove shifts the active piece by delta. Horizontal moves made while
// grounded spend the move allowance; upward moves never lift a cell past the
// visible top. A failed move changes nothing.
func (c *Controller) TryMove(delta Vec) bool {
	if !c.canAct() {
		return false
	}
	horizontal := delta.X != 0
	if horizontal && c.grounded && !c.rules.HardDropOnlyLock && c.movesLeft <= 0 {
		return false
	}
	if delta.Y > 0 {
		for _, cell := range c.piece.Cells() {
			if cell.Y+delta.Y >= c.board.Visible() {
				return false
			}
		}
	}
	if !c.board.IsValid(c.piece, delta) {
		return false
	}

	c.piece = c.piece.Moved(delta)
	c.lastRotation = false
	c.emit(Event{Type: EventMoved, Shape: c.piece.Shape})

	switch {
	case horizontal:
		c.touched(&c.movesLeft)
	case delta.Y > 0 && c.grounded && !c.rules.HardDropOnlyLock:
		c.idle = 0
	}
	return true
}

// TryRotate turns the active piece one step in dir, trying each SRS kick in
// order. If no candidate fits, the piece is left exactly as it was.
func (c *Controller) TryRotate(dir Direction) bool {
	if !c.canAct() {
		return false
	}
	if c.grounded && !c.rules.HardDropOnlyLock && c.rotatesLeft <= 0 {
		return false
	}
	rotated, ok := RotateWithKicks(c.board, c.piece, dir)
	if !ok {
		return false
	}

	c.piece = rotated
	c.lastRotation = true
	c.emit(Event{Type: EventRotated, Shape: c.piece.Shape})
	c.touched(&c.rotatesLeft)
	return true
}

// RotateWithKicks returns p turned one step in dir at the first kick offset
// that fits on b. The board is only queried.
func RotateWithKicks(b *Board, p Piece, dir Direction) (Piece, bool) {
	turned := p.Rotated(dir)
	for _, k := range Kicks(p.Shape, p.Orientation, dir) {
		if b.IsValid(turned, k) {
			return turned.Moved(k), true
		}
	}
	return p, false
}

// HardDrop drops the active piece as far as it goes and locks it, ignoring
// allowances and inactivity.
func (c *Controller) HardDrop() bool {
	if !c.canAct() {
		return false
	}
	dropped := 0
	for c.board.IsValid(c.piece, Down) {
		c.piece = c.piece.Moved(Down)
		dropped++
	}
	if dropped > 0 {
		c.lastRotation = false
	}
	c.hardDropped = true
	c.emit(Event{Type: EventHardDropped, Shape: c.piece.Shape, Cells: dropped})
	c.Lock()
	return true
}

// Lock writes the active piece into the board, clears full lines, notifies
// listeners and requests the next spawn. Calling it again before the next
// spawn does nothing.
func (c *Controller) Lock() {
	if !c.active || c.locked {
		return
	}
	c.locked = true

	c.board.Place(c.piece)
	lines := c.board.ClearFullLines()
	c.pieces++
	c.lines += lines

	info := LockInfo{
		Shape:    c.piece.Shape,
		Lines:    lines,
		Spin:     c.lastRotation,
		HardDrop: c.hardDropped,
	}
	c.emit(Event{Type: EventLocked, Shape: info.Shape, Lines: lines, Spin: info.Spin})
	for _, l := range c.listeners {
		l.OnPieceLocked(info)
	}
	if c.halted {
		return
	}
	c.spawnPending = true
	c.emit(Event{Type: EventSpawnRequested})
}

// Spawn activates the next shape from the randomizer and re-enables hold.
// It returns false on top out.
func (c *Controller) Spawn() bool {
	if c.toppedOut || c.halted {
		return false
	}
	c.spawnPending = false
	c.rnd.ResetHold()
	s := c.rnd.Next()
	c.emit(Event{Type: EventQueueChanged})
	return c.spawnShape(s)
}

func (c *Controller) spawnShape(s Shape) bool {
	p := NewPiece(s, c.rules.Spawn)

	c.locked = false
	c.hardDropped = false
	c.lastRotation = false
	c.grounded = false
	c.idle = 0
	c.fallAcc = 0
	c.movesLeft = c.rules.MoveAllowance
	c.rotatesLeft = c.rules.RotateAllowance

	if !c.board.IsValid(p, Vec{}) {
		c.active = false
		c.toppedOut = true
		c.emit(Event{Type: EventTopOut, Shape: s})
		return false
	}
	c.piece = p
	c.active = true
	c.spawns++
	c.emit(Event{Type: EventSpawned, Shape: s})
	return true
}

// Hold swaps the active piece with the hold slot. It fails when hold was
// already used for this piece.
func (c *Controller) Hold() bool {
	if !c.canAct() {
		return false
	}
	current := c.piece.Shape
	res, ok := c.rnd.RequestHold(current)
	if !ok {
		return false
	}
	c.active = false
	if res.Released {
		c.emit(Event{Type: EventHoldReleased, Shape: res.Spawn})
	}
	c.emit(Event{Type: EventHoldStored, Shape: current})
	c.emit(Event{Type: EventQueueChanged})
	c.spawnShape(res.Spawn)
	return true
}

// SetPaused freezes or resumes input, gravity and lock timers.
func (c *Controller) SetPaused(paused bool) { c.paused = paused }

// Paused reports whether the controller is paused.
func (c *Controller) Paused() bool { return c.paused }

// Halt stops the controller for good. Lock listeners call it when a goal is met.
func (c *Controller) Halt() {
	c.halted = true
	c.spawnPending = false
}

// Halted reports whether Halt was called.
func (c *Controller) Halted() bool { return c.halted }

// ToppedOut reports whether a spawn failed.
func (c *Controller) ToppedOut() bool { return c.toppedOut }

// SetFallSpeed changes gravity for subsequent ticks.
func (c *Controller) SetFallSpeed(cellsPerSecond float64) {
	if cellsPerSecond >= 0 {
		c.rules.FallSpeed = cellsPerSecond
	}
}

// Rules returns the active rules.
func (c *Controller) Rules() Rules { return c.rules }

// Board returns the board the controller writes to.
func (c *Controller) Board() *Board { return c.board }

// Active returns the live piece, if one is falling.
func (c *Controller) Active() (Piece, bool) {
	return c.piece, c.active && !c.locked
}

// Ghost returns where the active piece would land on a hard drop.
func (c *Controller) Ghost() (Piece, bool) {
	p, ok := c.Active()
	if !ok {
		return Piece{}, false
	}
	for c.board.IsValid(p, Down) {
		p = p.Moved(Down)
	}
	return p, true
}

// Grounded reports whether the active piece rests on something.
func (c *Controller) Grounded() bool { return c.grounded }

// Allowances returns the remaining grounded moves and rotations.
func (c *Controller) Allowances() (moves, rotations int) {
	return c.movesLeft, c.rotatesLeft
}

// Held returns the shape in the hold slot.
func (c *Controller) Held() (Shape, bool) { return c.rnd.Held() }

// CanHold reports whether hold is currently usable.
func (c *Controller) CanHold() bool { return c.rnd.CanHold() }

// Upcoming previews the next n shapes.
func (c *Controller) Upcoming(n int) []Shape { return c.rnd.PeekUpcoming(n) }

// Spawns counts successful spawns, including those from hold.
func (c *Controller) Spawns() int { return c.spawns }

// Stats returns the number of pieces locked and lines cleared.
func (c *Controller) Stats() (pieces, lines int) { return c.pieces, c.lines }

func (c *Controller) emit(e Event) {
	c.events = append(c.events, e)
}

func (c *Controller) drain() []Event {
	out := c.events
	c.events = nil
	return out
}
