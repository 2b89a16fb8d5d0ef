package camera

import (
	"time"

	"github.com/epic-tm/completionist/internal/layout"
)

// NoTier marks a focus on the domain core rather than one of its tiers.
const NoTier = -1

// Mode is the camera interaction mode: Idle, Dragging or Focused.
type Mode interface {
	isMode()
	String() string
}

// Idle is the free-camera mode.
type Idle struct{}

// Dragging tracks a pointer press. A press that starts while focused
// carries the focus in Resume and never pans; releasing restores it.
type Dragging struct {
	StartX, StartY float64
	LastX, LastY   float64
	Moved          bool
	Started        time.Time
	Resume         *Focused
}

// Focused pins the camera on a domain (Tier == NoTier) or one of its tiers.
type Focused struct {
	Domain int
	Tier   int
	Anchor layout.Point
}

func (Idle) isMode()     {}
func (Dragging) isMode() {}
func (Focused) isMode()  {}

func (Idle) String() string { return "idle" }

func (d Dragging) String() string {
	if d.Resume != nil {
		return "pressed"
	}
	return "dragging"
}

func (f Focused) String() string {
	if f.Tier == NoTier {
		return "focused"
	}
	return "focused-tier"
}

// IsTier reports whether the focus is on a tier rather than a domain core.
func (f Focused) IsTier() bool {
	return f.Tier != NoTier
}
