package game

// Event is the interface for outbound gameplay events. Render and audio
// collaborators subscribe to the stream instead of sharing mutable state
// with the simulation.
type Event interface {
	gameEvent()
}

// ScoreEvent is emitted when a point is awarded.
type ScoreEvent struct {
	Scorer   Side
	Boundary Side
	SelfGoal bool
	Score    int
}

func (ScoreEvent) gameEvent() {}

// CollisionKind categorizes collision events for audio cues.
type CollisionKind int

const (
	CollisionPaddle CollisionKind = iota
	CollisionPaddlePush // Paddle-paddle corner contact
	CollisionCoin
)

// CollisionEvent is emitted on ball or paddle contact.
type CollisionEvent struct {
	Kind CollisionKind
	Side Side // Paddle involved, or collector for coins
}

func (CollisionEvent) gameEvent() {}

// EffectStartEvent is emitted when an effect activates or refreshes.
type EffectStartEvent struct {
	Effect    ActiveEffect
	Refreshed bool
}

func (EffectStartEvent) gameEvent() {}

// EffectEndEvent is emitted when an effect expires or is forcibly cleared.
type EffectEndEvent struct {
	Effect ActiveEffect
	Forced bool // True when cleared by a scoring transition, not expiry
}

func (EffectEndEvent) gameEvent() {}

// PhaseEvent is emitted on match phase transitions.
type PhaseEvent struct {
	Phase  Phase
	Winner Side // Set when Phase == PhaseGameOver
}

func (PhaseEvent) gameEvent() {}

// Stream is a buffered, drop-oldest event queue. Publishing never blocks
// the tick loop; a slow subscriber loses the oldest events first.
type Stream struct {
	ch chan Event
}

// NewStream creates a stream with the given buffer size.
func NewStream(buffer int) *Stream {
	if buffer < 1 {
		buffer = 64
	}
	return &Stream{ch: make(chan Event, buffer)}
}

// Publish enqueues an event. If the buffer is full the oldest event is
// dropped and the new one enqueued best-effort.
func (s *Stream) Publish(evt Event) {
	select {
	case s.ch <- evt:
		return
	default:
	}
	// Buffer full, drop oldest and retry
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- evt:
	default:
	}
}

// Events returns the channel subscribers read from.
func (s *Stream) Events() <-chan Event {
	return s.ch
}
