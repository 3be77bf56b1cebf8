package engine

// EventType identifies what happened during a controller call.
type EventType int

const (
	EventSpawned EventType = iota
	EventMoved
	EventRotated
	EventHardDropped
	EventLocked
	EventSpawnRequested
	EventQueueChanged
	EventHoldStored
	EventHoldReleased
	EventTopOut
)

func (t EventType) String() string {
	switch t {
	case EventSpawned:
		return "spawned"
	case EventMoved:
		return "moved"
	case EventRotated:
		return "rotated"
	case EventHardDropped:
		return "hard_dropped"
	case EventLocked:
		return "locked"
	case EventSpawnRequested:
		return "spawn_requested"
	case EventQueueChanged:
		return "queue_changed"
	case EventHoldStored:
		return "hold_stored"
	case EventHoldReleased:
		return "hold_released"
	case EventTopOut:
		return "top_out"
	default:
		return "unknown"
	}
}

// Event is emitted by the controller. Fields not relevant to Type are zero.
type Event struct {
	Type  EventType
	Shape Shape
	Lines int // EventLocked: rows cleared
	Cells int // EventHardDropped: rows travelled
	Spin  bool
}

// LockInfo is passed to lock listeners.
type LockInfo struct {
	Shape Shape
	Lines int
	// Spin is true when the last accepted action before the lock was a rotation.
	Spin bool
	// HardDrop is true when the lock came from a hard drop.
	HardDrop bool
}

// LockListener is notified synchronously, once per lock, after lines are cleared
// and before the next spawn is requested. Listeners may call Controller.Halt.
type LockListener interface {
	OnPieceLocked(info LockInfo)
}

// LockListenerFunc adapts a function to LockListener.
type LockListenerFunc func(info LockInfo)

// OnPieceLocked calls f.
func (f LockListenerFunc) OnPieceLocked(info LockInfo) { f(info) }
