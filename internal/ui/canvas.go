package ui

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each terminal cell covers cellW×cellH screen units, which gives the
// chart its 2:1 cell aspect.
const (
	cellW = 8
	cellH = 16
)

// cellKind selects the style a cell is rendered with.
type cellKind uint8

const (
	kindEmpty cellKind = iota
	kindStar
	kindStarBright
	kindOrbit
	kindConnector
	kindConnectorHot
	kindDomain
	kindDomainHover
	kindTier
	kindTierHover
	kindNodeLocked
	kindNode
	kindNodeDone
	kindHologram
	kindJunction
	kindLabel
	kindCard
	kindCardTitle
	kindPanel
	kindPanelTitle
)

type cell struct {
	ch   rune
	kind cellKind
}

// canvas is a rune grid with a style class per cell.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for i := range c.cells {
		c.cells[i] = cell{ch: ' '}
	}
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

func (c *canvas) at(x, y int) cell {
	if !c.inside(x, y) {
		return cell{}
	}
	return c.cells[y*c.w+x]
}

func (c *canvas) set(x, y int, ch rune, k cellKind) {
	if !c.inside(x, y) {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, kind: k}
}

// setUnder writes only over empty or background cells.
func (c *canvas) setUnder(x, y int, ch rune, k cellKind) {
	if !c.inside(x, y) {
		return
	}
	if cur := c.cells[y*c.w+x].kind; cur > kindOrbit {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, kind: k}
}

func (c *canvas) text(x, y int, s string, k cellKind) {
	for _, r := range s {
		c.set(x, y, r, k)
		x++
	}
}

// centeredText writes s centred on column cx.
func (c *canvas) centeredText(cx, y int, s string, k cellKind) {
	c.text(cx-len([]rune(s))/2, y, s, k)
}

// ring draws a circle of radius r screen units around the screen point
// (sx, sy), correcting for the cell aspect.
func (c *canvas) ring(sx, sy, r float64, ch rune, k cellKind, under bool) {
	if r < cellW/2 {
		return
	}
	steps := int(2 * math.Pi * r / cellW * 2)
	if steps < 12 {
		steps = 12
	}
	if steps > 720 {
		steps = 720
	}
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x, y := cellOf(sx+r*math.Cos(theta), sy+r*math.Sin(theta))
		if under {
			c.setUnder(x, y, ch, k)
		} else {
			c.set(x, y, ch, k)
		}
	}
}

// disc fills a circle of radius r screen units around (sx, sy).
func (c *canvas) disc(sx, sy, r float64, ch rune, k cellKind) {
	x0, y0 := cellOf(sx-r, sy-r)
	x1, y1 := cellOf(sx+r, sy+r)
	for y := max(y0, 0); y <= min(y1, c.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.w-1); x++ {
			px := float64(x)*cellW + cellW/2
			py := float64(y)*cellH + cellH/2
			if math.Hypot(px-sx, py-sy) <= r {
				c.set(x, y, ch, k)
			}
		}
	}
}

// box draws a bordered panel around lines, clamped to the canvas. Nothing
// is drawn when it cannot fit.
func (c *canvas) box(x, y int, lines []string, titleKind, bodyKind cellKind) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 2
	height := len(lines) + 2
	if width+2 > c.w || height > c.h {
		return
	}
	x = clampInt(x, 0, c.w-width-2)
	y = clampInt(y, 0, c.h-height)

	c.set(x, y, '╭', bodyKind)
	c.set(x+width+1, y, '╮', bodyKind)
	c.set(x, y+height-1, '╰', bodyKind)
	c.set(x+width+1, y+height-1, '╯', bodyKind)
	for i := 1; i <= width; i++ {
		c.set(x+i, y, '─', bodyKind)
		c.set(x+i, y+height-1, '─', bodyKind)
	}
	for row := 1; row < height-1; row++ {
		c.set(x, y+row, '│', bodyKind)
		c.set(x+width+1, y+row, '│', bodyKind)
		for i := 1; i <= width; i++ {
			c.set(x+i, y+row, ' ', bodyKind)
		}
		k := bodyKind
		if row == 1 {
			k = titleKind
		}
		c.text(x+2, y+row, lines[row-1], k)
	}
}

// cellOf maps a screen position to the cell containing it.
func cellOf(sx, sy float64) (int, int) {
	return int(math.Floor(sx / cellW)), int(math.Floor(sy / cellH))
}

// screenOf maps a cell to the screen position of its centre.
func screenOf(x, y int) (float64, float64) {
	return float64(x*cellW + cellW/2), float64(y*cellH + cellH/2)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(hi, v))
}

// star is a cached background star.
type star struct {
	x, y   int
	ch     rune
	bright bool
}

// sky is the screen-space background: a deterministic starfield and the
// faint orbit rings around the screen centre. It only changes on resize.
type sky struct {
	w, h  int
	stars []star
	rings []float64 // radii in screen units
}

const (
	starCount     = 160
	orbitStart    = 150
	orbitSpacing  = 180
	starfieldSeed = 0x5eed
)

func buildSky(w, h int, g Glyphs) sky {
	s := sky{w: w, h: h}
	if w <= 0 || h <= 0 {
		return s
	}
	rng := rand.New(rand.NewPCG(starfieldSeed, uint64(w)<<32|uint64(h)))
	n := starCount * w * h / (160 * 48)
	n = clampInt(n, 20, starCount*2)
	for i := 0; i < n; i++ {
		bright := rng.Float64() > 0.75
		ch := g.Star
		if bright {
			ch = g.StarBright
		}
		s.stars = append(s.stars, star{x: rng.IntN(w), y: rng.IntN(h), ch: ch, bright: bright})
	}

	maxR := math.Max(float64(w*cellW), float64(h*cellH))
	for r := float64(orbitStart); r < maxR; r += orbitSpacing {
		s.rings = append(s.rings, r)
	}
	return s
}

func (s sky) draw(c *canvas, g Glyphs) {
	for _, st := range s.stars {
		k := kindStar
		if st.bright {
			k = kindStarBright
		}
		c.set(st.x, st.y, st.ch, k)
	}
	cx, cy := float64(c.w*cellW)/2, float64(c.h*cellH)/2
	for _, r := range s.rings {
		c.ring(cx, cy, r, g.Orbit, kindOrbit, true)
	}
}

// Styles for the chart canvas.
var (
	starStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	starBrightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	orbitStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("23"))
	connectorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("31"))
	connectorHotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	domainStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("25"))
	domainHoverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	tierStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("74"))
	tierHoverStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	nodeLockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nodeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	nodeDoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	hologramStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("87"))
	junctionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cardStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	cardTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	panelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	panelTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

func styleFor(k cellKind) lipgloss.Style {
	switch k {
	case kindStar:
		return starStyle
	case kindStarBright:
		return starBrightStyle
	case kindOrbit:
		return orbitStyle
	case kindConnector:
		return connectorStyle
	case kindConnectorHot:
		return connectorHotStyle
	case kindDomain:
		return domainStyle
	case kindDomainHover:
		return domainHoverStyle
	case kindTier:
		return tierStyle
	case kindTierHover:
		return tierHoverStyle
	case kindNodeLocked:
		return nodeLockedStyle
	case kindNode:
		return nodeStyle
	case kindNodeDone:
		return nodeDoneStyle
	case kindHologram:
		return hologramStyle
	case kindJunction:
		return junctionStyle
	case kindCard:
		return cardStyle
	case kindCardTitle:
		return cardTitleStyle
	case kindPanel:
		return panelStyle
	case kindPanelTitle:
		return panelTitleStyle
	default:
		return labelStyle
	}
}

// render styles the grid row by row, batching runs of equal kind.
func (c *canvas) render() string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			k := row[x].kind
			run.Reset()
			for x < len(row) && row[x].kind == k {
				run.WriteRune(row[x].ch)
				x++
			}
			if k == kindEmpty {
				b.WriteString(run.String())
				continue
			}
			b.WriteString(styleFor(k).Render(run.String()))
		}
		if y < c.h-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// plain returns the grid without styling.
func (c *canvas) plain() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			b.WriteRune(c.cells[y*c.w+x].ch)
		}
		if y < c.h-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
