// Package camera implements the smoothed pan/zoom transform of the chart.
package camera

import (
	"math"
	"time"

	"github.com/epic-tm/completionist/internal/layout"
)

// Camera is a pan/zoom state. X and Y are the world offset of the view
// centre, Scale is screen units per world unit.
type Camera struct {
	X     float64
	Y     float64
	Scale float64
}

// Viewport is the size of the drawing surface in screen units.
type Viewport struct {
	W float64
	H float64
}

// WorldToScreen maps a world position to screen space.
func (c Camera) WorldToScreen(v Viewport, wx, wy float64) (float64, float64) {
	cx := v.W/2 + c.X*c.Scale
	cy := v.H/2 + c.Y*c.Scale
	return cx + wx*c.Scale, cy + wy*c.Scale
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c Camera) ScreenToWorld(v Viewport, sx, sy float64) (float64, float64) {
	cx := v.W/2 + c.X*c.Scale
	cy := v.H/2 + c.Y*c.Scale
	return (sx - cx) / c.Scale, (sy - cy) / c.Scale
}

// Lerp moves c toward target by fraction t.
func (c Camera) Lerp(target Camera, t float64) Camera {
	return Camera{
		X:     lerp(c.X, target.X, t),
		Y:     lerp(c.Y, target.Y, t),
		Scale: lerp(c.Scale, target.Scale, t),
	}
}

// Config holds camera tuning.
type Config struct {
	InitialScale float64       `mapstructure:"initial_scale"`
	MinScale     float64       `mapstructure:"min_scale"`
	MaxScale     float64       `mapstructure:"max_scale"`
	Smoothing    float64       `mapstructure:"smoothing"`
	ZoomStep     float64       `mapstructure:"zoom_step"`
	UnlockScale  float64       `mapstructure:"unlock_scale"`
	ZoomFillPct  float64       `mapstructure:"zoom_fill_pct"`
	PanStep      float64       `mapstructure:"pan_step"`
	TapSlop      float64       `mapstructure:"tap_slop"`
	TapTimeout   time.Duration `mapstructure:"tap_timeout"`
}

// DefaultConfig returns the stock camera tuning. The initial scale doubles
// as the minimum so the chart can never be zoomed out past its overview.
func DefaultConfig() Config {
	return Config{
		InitialScale: 0.35,
		MinScale:     0.35,
		MaxScale:     8.0,
		Smoothing:    0.14,
		ZoomStep:     1.15,
		UnlockScale:  1.05,
		ZoomFillPct:  0.70,
		PanStep:      40,
		TapSlop:      8,
		TapTimeout:   400 * time.Millisecond,
	}
}

// Controller owns the rendered and target cameras and the interaction mode.
type Controller struct {
	Current Camera
	Target  Camera
	View    Viewport
	Mode    Mode

	cfg Config
}

// New creates a controller at the initial overview.
func New(cfg Config, view Viewport) *Controller {
	if cfg.MinScale <= 0 {
		cfg.MinScale = cfg.InitialScale
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = cfg.MinScale
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = DefaultConfig().Smoothing
	}
	if cfg.ZoomStep <= 1 {
		cfg.ZoomStep = DefaultConfig().ZoomStep
	}
	start := Camera{Scale: clamp(cfg.InitialScale, cfg.MinScale, cfg.MaxScale)}
	return &Controller{
		Current: start,
		Target:  start,
		View:    view,
		Mode:    Idle{},
		cfg:     cfg,
	}
}

// Config returns the controller's tuning.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetViewport updates the drawing surface size.
func (c *Controller) SetViewport(v Viewport) {
	c.View = v
}

// Step advances one animation frame.
func (c *Controller) Step() {
	if f, ok := c.Focus(); ok {
		if c.Target.Scale < c.cfg.UnlockScale {
			c.release()
		} else {
			c.Target.X, c.Target.Y = -f.Anchor.X, -f.Anchor.Y
		}
	}
	c.Current = c.Current.Lerp(c.Target, c.cfg.Smoothing)
}

// ScreenToWorld maps a screen position through the rendered camera.
func (c *Controller) ScreenToWorld(sx, sy float64) layout.Point {
	x, y := c.Current.ScreenToWorld(c.View, sx, sy)
	return layout.Point{X: x, Y: y}
}

// WorldToScreen maps a world position through the rendered camera.
func (c *Controller) WorldToScreen(p layout.Point) (float64, float64) {
	return c.Current.WorldToScreen(c.View, p.X, p.Y)
}

// ZoomAt scales the target by ZoomStep^steps around the screen point
// (sx, sy). Positive steps zoom in. Outside focus mode the world point
// under the cursor stays put.
func (c *Controller) ZoomAt(sx, sy, steps float64) {
	newScale := clamp(c.Target.Scale*math.Pow(c.cfg.ZoomStep, steps), c.cfg.MinScale, c.cfg.MaxScale)

	f, focused := c.Focus()
	if focused {
		c.Target.Scale = newScale
		c.Target.X, c.Target.Y = -f.Anchor.X, -f.Anchor.Y
	} else {
		bx, by := c.Target.ScreenToWorld(c.View, sx, sy)
		c.Target.Scale = newScale
		ax, ay := c.Target.ScreenToWorld(c.View, sx, sy)
		c.Target.X += ax - bx
		c.Target.Y += ay - by
	}

	if focused && c.Target.Scale < c.cfg.UnlockScale {
		c.release()
	}
}

// Pan shifts the target by a screen-space delta. Ignored while focused.
func (c *Controller) Pan(dx, dy float64) {
	if _, ok := c.Focus(); ok {
		return
	}
	c.Target.X += dx / c.Target.Scale
	c.Target.Y += dy / c.Target.Scale
}

// PointerDown starts a potential drag or tap.
func (c *Controller) PointerDown(sx, sy float64, now time.Time) {
	d := Dragging{StartX: sx, StartY: sy, LastX: sx, LastY: sy, Started: now}
	if f, ok := c.Focus(); ok {
		d.Resume = &f
	}
	c.Mode = d
}

// PointerMove updates an active drag. Movement below the tap slop is
// ignored; past it the target pans with the pointer unless a focus lock
// is held.
func (c *Controller) PointerMove(sx, sy float64) {
	d, ok := c.Mode.(Dragging)
	if !ok {
		return
	}
	if !d.Moved && math.Hypot(sx-d.StartX, sy-d.StartY) > c.cfg.TapSlop {
		d.Moved = true
	}
	if d.Moved && d.Resume == nil {
		c.Target.X += (sx - d.LastX) / c.Target.Scale
		c.Target.Y += (sy - d.LastY) / c.Target.Scale
		d.LastX, d.LastY = sx, sy
	}
	c.Mode = d
}

// PointerUp ends a drag and reports whether the gesture was a tap.
func (c *Controller) PointerUp(now time.Time) bool {
	d, ok := c.Mode.(Dragging)
	if !ok {
		return false
	}
	if d.Resume != nil {
		c.Mode = *d.Resume
	} else {
		c.Mode = Idle{}
	}
	return !d.Moved && now.Sub(d.Started) < c.cfg.TapTimeout
}

// FocusDomain locks the camera onto a domain core.
func (c *Controller) FocusDomain(domain int, pos layout.Point, visual float64) {
	c.focus(Focused{Domain: domain, Tier: NoTier, Anchor: pos}, visual)
}

// FocusTier locks the camera onto a tier of a domain.
func (c *Controller) FocusTier(domain, tier int, pos layout.Point, visual float64) {
	c.focus(Focused{Domain: domain, Tier: tier, Anchor: pos}, visual*1.4)
}

func (c *Controller) focus(f Focused, visual float64) {
	c.Mode = f
	c.Target.X, c.Target.Y = -f.Anchor.X, -f.Anchor.Y
	if visual > 0 {
		req := math.Min(c.View.W, c.View.H) * c.cfg.ZoomFillPct / visual
		// A focus that lands below the unlock scale would be dropped on the next frame.
		lo := math.Max(c.cfg.MinScale, c.cfg.UnlockScale)
		c.Target.Scale = clamp(req*1.02, lo, c.cfg.MaxScale)
	}
}

// Focus returns the current focus lock, if any.
func (c *Controller) Focus() (Focused, bool) {
	f, ok := c.Mode.(Focused)
	if !ok {
		if d, dragging := c.Mode.(Dragging); dragging && d.Resume != nil {
			return *d.Resume, true
		}
	}
	return f, ok
}

// Reset returns to the initial overview.
func (c *Controller) Reset() {
	c.Mode = Idle{}
	c.Target = Camera{Scale: clamp(c.cfg.InitialScale, c.cfg.MinScale, c.cfg.MaxScale)}
}

func (c *Controller) release() {
	c.Mode = Idle{}
	c.Target.X, c.Target.Y = 0, 0
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
