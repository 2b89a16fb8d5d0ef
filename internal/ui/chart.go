package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/camera"
	"github.com/epic-tm/completionist/internal/hover"
	"github.com/epic-tm/completionist/internal/layout"
	"github.com/epic-tm/completionist/internal/state"
)

// Chart tuning. Distances are in world units unless noted.
const (
	nodeShowScale      = 1.05
	nodeLabelScale     = 1.2
	nodeLabelOffset    = 32
	hoverEase          = 0.16
	holoMin            = 0.02
	holoMinSize        = 40
	holoSizeFactor     = 2.8
	connectorStrength  = 0.22
	connectorMaxOffset = 420
	junctionGap        = 36
	titleCardRise      = 56 // screen units
	maxCurveSteps      = 2000
)

// HoverEnterMsg reports that the pointer moved onto a new entity.
type HoverEnterMsg struct {
	Target hover.Target
}

// enterQueue collects the router's OnEnter calls until the pointer event
// that caused them returns. Copies of the model share it.
type enterQueue struct {
	pending []hover.Target
}

// ChartModel is the star chart view. It owns the camera and the hover
// router; the achievement data comes in through UpdateData.
type ChartModel struct {
	cam     *camera.Controller
	router  *hover.Router
	entered *enterQueue
	radii   hover.Radii
	lcfg    layout.Config
	glyphs  Glyphs
	keys    KeyMap
	now     func() time.Time

	width  int
	height int
	sky    sky

	layout *layout.Layout
	doc    *achievements.Document
	holo   map[achievements.Ref]float64
	detail *achievements.Ref
}

// NewChartModel creates a chart view at the overview camera.
func NewChartModel(cc camera.Config, lcfg layout.Config, g Glyphs) ChartModel {
	entered := &enterQueue{}
	router := hover.NewRouter()
	router.OnEnter = func(t hover.Target) {
		entered.pending = append(entered.pending, t)
	}
	return ChartModel{
		cam:     camera.New(cc, camera.Viewport{}),
		router:  router,
		entered: entered,
		radii:   hover.RadiiFor(lcfg),
		lcfg:    lcfg,
		glyphs:  g.withFallback(),
		keys:    DefaultKeyMap(),
		now:     time.Now,
		holo:    make(map[achievements.Ref]float64),
	}
}

// WithClock replaces the clock used for tap detection.
func (m ChartModel) WithClock(now func() time.Time) ChartModel {
	m.now = now
	return m
}

// SetSize updates the canvas size in cells.
func (m ChartModel) SetSize(width, height int) ChartModel {
	if width == m.width && height == m.height {
		return m
	}
	m.width = width
	m.height = height
	m.cam.SetViewport(camera.Viewport{W: float64(width * cellW), H: float64(height * cellH)})
	m.sky = buildSky(width, height, m.glyphs)
	return m
}

// UpdateData swaps in a new snapshot. A focus or detail that no longer
// exists in the new layout is dropped.
func (m ChartModel) UpdateData(snap state.Snapshot) ChartModel {
	m.doc = snap.Document
	m.layout = snap.Layout

	if f, ok := m.cam.Focus(); ok {
		switch {
		case m.layout.Domain(f.Domain) == nil:
			m.cam.Reset()
		case f.IsTier():
			if tn := m.layout.Tier(f.Domain, f.Tier); tn == nil {
				m.cam.Reset()
			} else if _, dragging := m.cam.Mode.(camera.Dragging); !dragging {
				f.Anchor = tn.Pos
				m.cam.Mode = f
			}
		default:
			if _, dragging := m.cam.Mode.(camera.Dragging); !dragging {
				f.Anchor = m.layout.Domain(f.Domain).Pos
				m.cam.Mode = f
			}
		}
	}
	if m.detail != nil {
		if _, err := m.doc.Get(*m.detail); err != nil {
			m.detail = nil
		}
	}
	if !m.targetExists(m.router.Current()) {
		m.router.Clear()
	}
	return m
}

func (m ChartModel) targetExists(t hover.Target) bool {
	switch t.Kind {
	case hover.KindDomain:
		return m.layout.Domain(t.Domain) != nil
	case hover.KindTier:
		return m.layout.Tier(t.Domain, t.Tier) != nil
	case hover.KindNode:
		return m.layout.Node(t.Domain, t.Tier, t.Node) != nil
	}
	return true
}

// Step advances one animation frame: camera smoothing, then the hologram
// fade of every node.
func (m ChartModel) Step() ChartModel {
	m.cam.Step()
	if m.layout == nil {
		return m
	}

	hov := m.router.Current()
	visible := m.showNodes()
	for _, dom := range m.layout.Domains {
		for _, tier := range dom.Tiers {
			shown := visible(dom.Index, tier.Index)
			for _, n := range tier.Nodes {
				ref := achievements.Ref{Domain: dom.Index, Tier: tier.Index, Index: n.Index}
				target := 0.0
				if shown && hov.Kind == hover.KindNode && hov.Domain == ref.Domain && hov.Tier == ref.Tier && hov.Node == ref.Index {
					target = 1
				}
				a := m.holo[ref]
				a += (target - a) * hoverEase
				if target == 0 && a < holoMin/4 {
					delete(m.holo, ref)
					continue
				}
				m.holo[ref] = a
			}
		}
	}
	return m
}

// Update handles pointer and keyboard input.
func (m ChartModel) Update(msg tea.Msg) (ChartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.drainEnters()
	case tea.KeyMsg:
		m.handleKey(msg)
	}
	return m, nil
}

// drainEnters turns the latest hover enter into a HoverEnterMsg.
func (m ChartModel) drainEnters() tea.Cmd {
	q := m.entered
	if len(q.pending) == 0 {
		return nil
	}
	t := q.pending[len(q.pending)-1]
	q.pending = q.pending[:0]
	return func() tea.Msg { return HoverEnterMsg{Target: t} }
}

func (m *ChartModel) handleMouse(msg tea.MouseMsg) {
	sx, sy := screenOf(msg.X, msg.Y)
	now := m.now()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cam.ZoomAt(sx, sy, 1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.cam.ZoomAt(sx, sy, -1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.cam.PointerDown(sx, sy, now)
		m.hoverAt(sx, sy)
	case msg.Action == tea.MouseActionMotion:
		m.cam.PointerMove(sx, sy)
		m.hoverAt(sx, sy)
	case msg.Action == tea.MouseActionRelease:
		if m.cam.PointerUp(now) {
			m.hoverAt(sx, sy)
			m.activate(m.router.Current())
		}
	}
}

func (m *ChartModel) handleKey(msg tea.KeyMsg) {
	step := m.cam.Config().PanStep
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cam.Pan(step, 0)
	case key.Matches(msg, m.keys.Right):
		m.cam.Pan(-step, 0)
	case key.Matches(msg, m.keys.Up):
		m.cam.Pan(0, step)
	case key.Matches(msg, m.keys.Down):
		m.cam.Pan(0, -step)
	case key.Matches(msg, m.keys.ZoomIn):
		m.cam.ZoomAt(m.cam.View.W/2, m.cam.View.H/2, 1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.cam.ZoomAt(m.cam.View.W/2, m.cam.View.H/2, -1)
	case key.Matches(msg, m.keys.Select):
		if t := m.router.Current(); !t.IsNone() {
			m.activate(t)
		}
	case key.Matches(msg, m.keys.Reset):
		m.resetView()
	case key.Matches(msg, m.keys.Back):
		if m.detail != nil {
			m.detail = nil
		} else {
			m.resetView()
		}
	}
}

// hoverAt resolves the entity under a screen point.
func (m *ChartModel) hoverAt(sx, sy float64) {
	w := m.cam.ScreenToWorld(sx, sy)
	t := hover.Resolve(m.layout, w, m.cam.Current.Scale, m.showNodes(), m.radii)
	m.router.Update(coreAsDomain(t))
}

// coreAsDomain maps tier 0, which sits on the domain core, to the domain.
func coreAsDomain(t hover.Target) hover.Target {
	if t.Kind == hover.KindTier && t.Tier == 0 {
		return hover.Target{Kind: hover.KindDomain, Domain: t.Domain, Tier: -1, Node: -1}
	}
	return t
}

// activate applies tap semantics to a target: nothing resets the view, a
// domain or tier takes the focus, a node opens its detail panel.
func (m *ChartModel) activate(t hover.Target) {
	switch t.Kind {
	case hover.KindNone:
		m.resetView()
	case hover.KindDomain:
		m.focusDomain(t.Domain)
	case hover.KindTier:
		tn := m.layout.Tier(t.Domain, t.Tier)
		if tn == nil {
			return
		}
		visual := tn.Visual
		if visual <= 0 {
			visual = m.lcfg.TierVisual
		}
		m.cam.FocusTier(t.Domain, t.Tier, tn.Pos, visual)
		m.detail = nil
		m.router.Clear()
	case hover.KindNode:
		ref := achievements.Ref{Domain: t.Domain, Tier: t.Tier, Index: t.Node}
		m.detail = &ref
	}
}

func (m *ChartModel) focusDomain(d int) {
	dn := m.layout.Domain(d)
	if dn == nil {
		return
	}
	m.cam.FocusDomain(d, dn.Pos, m.lcfg.CoreVisual)
	m.detail = nil
	m.router.Clear()
}

func (m *ChartModel) resetView() {
	m.cam.Reset()
	m.detail = nil
	m.router.Clear()
}

// FocusDomain locks the camera onto domain d.
func (m ChartModel) FocusDomain(d int) ChartModel {
	m.focusDomain(d)
	return m
}

// Detail returns the achievement whose detail panel is open.
func (m ChartModel) Detail() (achievements.Ref, bool) {
	if m.detail == nil {
		return achievements.Ref{}, false
	}
	return *m.detail, true
}

// CloseDetail hides the detail panel.
func (m ChartModel) CloseDetail() ChartModel {
	m.detail = nil
	return m
}

// Hovered returns the entity under the pointer.
func (m ChartModel) Hovered() hover.Target {
	return m.router.Current()
}

// Camera exposes the controller for status display.
func (m ChartModel) Camera() *camera.Controller {
	return m.cam
}

// StatusLine summarises camera and hover state.
func (m ChartModel) StatusLine() string {
	return fmt.Sprintf("%s · zoom %.2fx · %s", m.cam.Mode, m.cam.Current.Scale, m.router.Current())
}

func (m ChartModel) showNodes() hover.Eligibility {
	fd, ft := -1, -1
	if f, ok := m.cam.Focus(); ok {
		fd, ft = f.Domain, f.Tier
	}
	return hover.ShowNodes(m.cam.Current.Scale, nodeShowScale, fd, ft)
}

// View renders the chart.
func (m ChartModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small"
	}
	c := newCanvas(m.width, m.height)
	m.draw(c)
	return c.render()
}

// draw paints one frame back to front: sky, connectors, domains, tiers,
// nodes, then the screen-space overlays.
func (m ChartModel) draw(c *canvas) {
	g := m.glyphs
	m.sky.draw(c, g)
	if m.layout == nil {
		return
	}

	hov := m.router.Current()
	visible := m.showNodes()
	focus, focused := m.cam.Focus()
	scale := m.cam.Current.Scale

	for _, dom := range m.layout.Domains {
		for _, tier := range dom.Tiers {
			hot := (hov.Kind == hover.KindDomain && hov.Domain == dom.Index) ||
				(hov.Kind == hover.KindTier && hov.Domain == dom.Index && hov.Tier == tier.Index) ||
				(focused && focus.Domain == dom.Index)
			k := kindConnector
			if hot {
				k = kindConnectorHot
			}
			if tier.Pos != dom.Pos {
				m.curve(c, dom.Pos, tier.Pos, k)
			}
			if visible(dom.Index, tier.Index) && len(tier.Nodes) > 1 {
				for i := range tier.Nodes {
					next := tier.Nodes[(i+1)%len(tier.Nodes)]
					m.curve(c, tier.Nodes[i].Pos, next.Pos, kindConnector)
				}
			}
		}
	}

	for _, dom := range m.layout.Domains {
		sx, sy := m.cam.WorldToScreen(dom.Pos)
		r := m.lcfg.CoreVisual / 2 * scale
		k := kindDomain
		if hov.Kind == hover.KindDomain && hov.Domain == dom.Index {
			k = kindDomainHover
		}
		if r >= cellW {
			c.disc(sx, sy, r, g.DomainFill, k)
			c.ring(sx, sy, r, g.DomainRim, k, false)
		} else {
			x, y := cellOf(sx, sy)
			c.set(x, y, g.tier(0), k)
		}
		x, y := cellOf(sx, sy+r+20*scale)
		c.centeredText(x, y+1, strings.ToUpper(dom.Name), kindLabel)
	}

	for _, dom := range m.layout.Domains {
		for _, tier := range dom.Tiers {
			m.drawTier(c, dom, tier, hov, visible(dom.Index, tier.Index), focused && focus.Domain == dom.Index && focus.Tier == tier.Index)
		}
	}

	for _, dom := range m.layout.Domains {
		for _, tier := range dom.Tiers {
			m.drawNodes(c, dom.Index, tier, visible(dom.Index, tier.Index))
		}
	}

	m.drawTitleCard(c, hov)
	m.drawDetail(c)
}

func (m ChartModel) drawTier(c *canvas, dom layout.DomainNode, tier layout.TierNode, hov hover.Target, shown, isFocus bool) {
	g := m.glyphs
	scale := m.cam.Current.Scale
	visual := tier.Visual
	if visual <= 0 {
		visual = m.lcfg.TierVisual
	}
	sx, sy := m.cam.WorldToScreen(tier.Pos)
	r := visual / 2 * scale
	hovered := hov.Kind == hover.KindTier && hov.Domain == dom.Index && hov.Tier == tier.Index

	k := kindTier
	if hovered || isFocus {
		k = kindTierHover
	}
	if tier.Index > 0 && r >= cellW*1.5 {
		c.ring(sx, sy, r, g.TierRim, k, false)
	}
	x, y := cellOf(sx, sy)
	c.set(x, y, g.tier(tier.Index), k)

	name := tier.Name
	if name == "" {
		name = fmt.Sprintf("Tier %d", tier.Index+1)
	}
	_, ly := cellOf(sx, sy-r-10*scale)
	c.centeredText(x, ly-1, strings.ToUpper(name), kindLabel)

	if tier.Index > 0 && shown && (hovered || isFocus) {
		dx, dy := tier.Pos.X-dom.Pos.X, tier.Pos.Y-dom.Pos.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			d = 1
		}
		off := visual/2 + junctionGap
		j := layout.Point{X: tier.Pos.X + dx/d*off, Y: tier.Pos.Y + dy/d*off}
		jx, jy := cellOf(m.cam.WorldToScreen(j))
		c.set(jx, jy, g.Junction, kindJunction)
	}
}

func (m ChartModel) drawNodes(c *canvas, d int, tier layout.TierNode, shown bool) {
	g := m.glyphs
	scale := m.cam.Current.Scale
	for _, n := range tier.Nodes {
		ref := achievements.Ref{Domain: d, Tier: tier.Index, Index: n.Index}
		sx, sy := m.cam.WorldToScreen(n.Pos)

		if a := m.holo[ref]; a > holoMin {
			size := math.Max(holoMinSize, n.R*holoSizeFactor)
			c.ring(sx, sy, size/2*scale, g.hologram(a), kindHologram, false)
		}
		if !shown {
			continue
		}

		ch, k := g.Node, kindNode
		var title string
		if a, err := m.doc.Get(ref); err == nil {
			title = a.Title
			switch a.Status {
			case achievements.StatusLocked:
				ch, k = g.NodeLocked, kindNodeLocked
			case achievements.StatusCompleted:
				ch, k = g.NodeDone, kindNodeDone
			}
		}
		x, y := cellOf(sx, sy)
		c.set(x, y, ch, k)
		if scale > nodeLabelScale && title != "" {
			lx, ly := cellOf(sx+nodeLabelOffset*scale, sy+4*scale)
			c.text(lx, ly, strings.ToUpper(title), kindLabel)
		}
	}
}

// curve draws a bent connector from a to b.
func (m ChartModel) curve(c *canvas, a, b layout.Point, k cellKind) {
	ctrl := layout.ControlPoint(a, b, connectorStrength, connectorMaxOffset)
	ax, ay := m.cam.WorldToScreen(a)
	bx, by := m.cam.WorldToScreen(b)
	steps := int(math.Hypot(bx-ax, by-ay) / (cellW / 2))
	steps = clampInt(steps, 2, maxCurveSteps)
	for i := 0; i <= steps; i++ {
		p := layout.Quadratic(a, ctrl, b, float64(i)/float64(steps))
		x, y := cellOf(m.cam.WorldToScreen(p))
		c.set(x, y, m.glyphs.Connector, k)
	}
}

// drawTitleCard labels the hovered entity just above it.
func (m ChartModel) drawTitleCard(c *canvas, hov hover.Target) {
	var (
		pos        layout.Point
		title, sub string
	)
	switch hov.Kind {
	case hover.KindDomain:
		dn := m.layout.Domain(hov.Domain)
		if dn == nil {
			return
		}
		pos, title, sub = dn.Pos, strings.ToUpper(dn.Name), "CLICK TO FOCUS"
	case hover.KindTier:
		tn := m.layout.Tier(hov.Domain, hov.Tier)
		if tn == nil {
			return
		}
		pos, title, sub = tn.Pos, strings.ToUpper(tn.Name), fmt.Sprintf("%d NODES", len(tn.Nodes))
	case hover.KindNode:
		n := m.layout.Node(hov.Domain, hov.Tier, hov.Node)
		a, err := m.doc.Get(achievements.Ref{Domain: hov.Domain, Tier: hov.Tier, Index: hov.Node})
		if n == nil || err != nil {
			return
		}
		pos, title, sub = n.Pos, strings.ToUpper(a.Title), truncate(a.Description, 80)
	default:
		return
	}

	lines := []string{string(m.glyphs.Card) + " " + title}
	if sub != "" {
		lines = append(lines, sub)
	}
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	sx, sy := m.cam.WorldToScreen(pos)
	x, y := cellOf(sx, sy-titleCardRise)
	c.box(x-(width+4)/2, y-len(lines)-1, lines, kindCardTitle, kindCard)
}

// drawDetail renders the detail panel of the open achievement.
func (m ChartModel) drawDetail(c *canvas) {
	if m.detail == nil {
		return
	}
	a, err := m.doc.Get(*m.detail)
	if err != nil {
		return
	}
	width := clampInt(c.w/3, 24, 48)

	lines := []string{
		strings.ToUpper(truncate(a.Title, width)),
		"",
		"Status:    " + string(a.Status),
	}
	if a.DateCompleted != nil {
		lines = append(lines, "Completed: "+a.DateCompleted.Local().Format("2006-01-02 15:04"))
	}
	lines = append(lines, "")
	lines = append(lines, wrapText(a.Description, width)...)
	lines = append(lines, "")
	switch a.Status {
	case achievements.StatusAvailable:
		lines = append(lines, "[c] complete  [esc] close")
	default:
		lines = append(lines, "[esc] close")
	}
	c.box(c.w-width-5, 1, lines, kindPanelTitle, kindPanel)
}

// wrapText breaks s into lines of at most width runes on word boundaries.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = w
		case len(line)+1+len(w) <= width:
			line = append(append(line, ' '), w...)
		default:
			lines = append(lines, string(line))
			line = w
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
