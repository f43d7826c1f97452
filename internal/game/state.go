// Package game holds the canonical match state and the local simulation:
// ball physics, paddle collision, CPU paddles, timed effects, and the
// scoring state machine. Exactly one Snapshot is authoritative at any
// instant; in networked play it is owned by the synchronizer, otherwise by
// the local Engine.
package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/quadpong/internal/core"
)

// Side identifies one of the four paddle walls, or none (spectator).
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
	SideTop
	SideBottom
)

// Sides lists the four playable sides in a stable order.
func Sides() [4]Side {
	return [4]Side{SideLeft, SideRight, SideTop, SideBottom}
}

// String returns the wire name of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "none"
	}
}

// ParseSide converts a wire name into a Side. Unknown names map to SideNone.
func ParseSide(name string) Side {
	switch name {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	case "top":
		return SideTop
	case "bottom":
		return SideBottom
	default:
		return SideNone
	}
}

// Opposite returns the facing side: left<->right, top<->bottom.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	default:
		return SideNone
	}
}

// Horizontal reports whether the side's paddle slides along the X axis.
// Top and bottom paddles do; left and right paddles slide along Y.
func (s Side) Horizontal() bool {
	return s == SideTop || s == SideBottom
}

// MarshalText implements encoding.TextMarshaler so sides work as JSON map
// keys in network payloads.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	*s = ParseSide(string(text))
	return nil
}

// Ball is the single game ball. Pos is the top-left corner of its bounding
// square; Vel is in field units per second.
type Ball struct {
	Pos     core.Vec
	Vel     core.Vec
	Size    float64
	Spin    float64 // Tangential carry from the last paddle hit
	Phasing bool    // Briefly ignores paddles right after a serve
	Frozen  bool    // Held in place during the post-score pause
}

// Rect returns the ball's bounding box.
func (b Ball) Rect() core.Rect {
	return core.NewRect(b.Pos.X, b.Pos.Y, b.Size, b.Size)
}

// Paddle is one wall paddle. Pos and Vel are along the paddle's movement
// axis (Y for left/right, X for top/bottom), measured at the paddle center.
type Paddle struct {
	Side     Side
	Pos      float64
	Vel      float64
	Length   float64
	Target   float64 // Where the driver (AI or remote player) wants to be
	Frozen   bool    // Movement suppressed by a freeze effect
	Reversed bool    // Control axis inverted by a reverse effect
}

// Coin is a collectible pickup on the field. Touching it with the ball
// grants a random timed effect to the last toucher.
type Coin struct {
	ID   int
	Pos  core.Vec
	Size float64
}

// Rect returns the coin's bounding box.
func (c Coin) Rect() core.Rect {
	return core.NewRect(c.Pos.X, c.Pos.Y, c.Size, c.Size)
}

// Phase is the match state machine position.
type Phase int

const (
	PhaseRallying Phase = iota
	PhasePausedAfterScore
	PhaseGameOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRallying:
		return "rallying"
	case PhasePausedAfterScore:
		return "paused-after-score"
	case PhaseGameOver:
		return "game-over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is the canonical per-tick state of the whole match. It is the
// sole shared value between the network message handler and the tick loop:
// producers replace it wholesale and never mutate a published copy.
type Snapshot struct {
	Tick     uint64
	Ball     Ball
	Paddles  map[Side]Paddle
	Scores   map[Side]int
	Effects  []ActiveEffect
	Coins    []Coin
	Phase    Phase
	ResumeAt time.Time // Valid while Phase == PhasePausedAfterScore
	Winner   Side
	Ended    bool
}

// NewSnapshot creates an empty snapshot with all four paddles centered on a
// field of the given size.
func NewSnapshot(fieldW, fieldH, paddleLen, ballSize float64) *Snapshot {
	s := &Snapshot{
		Paddles: make(map[Side]Paddle, 4),
		Scores:  make(map[Side]int, 4),
	}
	for _, side := range Sides() {
		center := fieldH / 2
		if side.Horizontal() {
			center = fieldW / 2
		}
		s.Paddles[side] = Paddle{
			Side:   side,
			Pos:    center,
			Target: center,
			Length: paddleLen,
		}
		s.Scores[side] = 0
	}
	s.Ball = Ball{
		Pos:  core.Vec{X: fieldW/2 - ballSize/2, Y: fieldH/2 - ballSize/2},
		Size: ballSize,
	}
	return s
}

// Clone returns a deep copy. Merges in the synchronizer work on a clone and
// publish it atomically, so a reader never observes a partial update.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	next := *s
	next.Paddles = make(map[Side]Paddle, len(s.Paddles))
	for side, p := range s.Paddles {
		next.Paddles[side] = p
	}
	next.Scores = make(map[Side]int, len(s.Scores))
	for side, v := range s.Scores {
		next.Scores[side] = v
	}
	next.Effects = append([]ActiveEffect(nil), s.Effects...)
	next.Coins = append([]Coin(nil), s.Coins...)
	return &next
}
