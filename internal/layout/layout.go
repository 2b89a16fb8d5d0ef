// Package layout places domains, tiers and achievement nodes in world space.
//
// Everything here is a pure function of configuration: the same Config and
// Shape always produce bit-identical positions, so the chart looks the same
// across restarts without persisting coordinates.
package layout

import "math"

const (
	// goldenAngleRad is the golden angle in radians (π·(3−√5)).
	goldenAngleRad = 2.399963229728653

	// Tier fan-out around a domain core.
	tierFanStep    = 0.6
	tierFanPerDom  = 0.12
	domainPhaseAmp = 0.35
	domainPhaseMul = 1.3

	// Node placement jitter.
	nodeAngleStep = 0.16
	nodeFracLo    = 0.35
	nodeFracSpan  = 0.6
)

// Point is a position in world space.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Domain is one entry of the top-level ring. Its identity is its slot.
type Domain struct {
	Name   string
	Slot   int
	Radius float64
}

// Config holds the geometric constants of the chart. Domain and tier counts
// come from the Shape passed to Build.
type Config struct {
	CoreRadius     float64 `mapstructure:"core_radius"`
	TierBaseOffset float64 `mapstructure:"tier_base_offset"`
	TierSpacing    float64 `mapstructure:"tier_spacing"`
	DomainStagger  float64 `mapstructure:"domain_stagger"`
	CoreVisual     float64 `mapstructure:"core_visual"`
	TierVisual     float64 `mapstructure:"tier_visual"`
	NodeIcon       float64 `mapstructure:"node_icon"`
	NodeMinRF      float64 `mapstructure:"node_min_rf"`
	NodeMaxRF      float64 `mapstructure:"node_max_rf"`
}

// DefaultConfig returns the stock chart geometry.
func DefaultConfig() Config {
	return Config{
		CoreRadius:     900,
		TierBaseOffset: 220,
		TierSpacing:    360, // wide enough that neighbouring tiers never overlap
		DomainStagger:  20,
		CoreVisual:     480,
		TierVisual:     160,
		NodeIcon:       22,
		NodeMinRF:      0.34,
		NodeMaxRF:      0.80,
	}
}

// Shape describes how many tiers and nodes each domain has and what they are called.
// It is usually derived from an achievements document.
type Shape struct {
	DomainNames []string
	TierNames   [][]string
	NodeCounts  [][]int // [domain][tier] -> node count
}

// DomainNode is a placed domain core with its tiers.
type DomainNode struct {
	Index int
	Name  string
	Pos   Point
	Angle float64
	Tiers []TierNode
}

// TierNode is a placed tier. Tier 0 coincides with the domain core.
type TierNode struct {
	Index  int
	Name   string
	Pos    Point
	Visual float64 // rendered diameter in world units
	Nodes  []LeafNode
}

// LeafNode is a placed achievement node.
type LeafNode struct {
	Index int
	Pos   Point
	R     float64 // icon radius in screen units
}

// Layout is the complete placement of a chart.
type Layout struct {
	Domains []DomainNode
}

// Ring returns n points equally spaced by 2π/n on a circle of the given
// radius around the origin, starting at phase.
func Ring(n int, radius, phase float64) []Point {
	if n <= 0 {
		return nil
	}
	pts := make([]Point, n)
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		pts[i] = Offset(Point{}, radius, phase+float64(i)*step)
	}
	return pts
}

// PlaceDomains assigns ring slots to the given names.
func PlaceDomains(names []string, radius float64) []Domain {
	out := make([]Domain, len(names))
	for i, name := range names {
		out[i] = Domain{Name: name, Slot: i, Radius: radius}
	}
	return out
}

// Offset returns parent + radius·(cos angle, sin angle).
func Offset(parent Point, radius, angle float64) Point {
	return Point{
		X: parent.X + radius*math.Cos(angle),
		Y: parent.Y + radius*math.Sin(angle),
	}
}

// GoldenAngle returns i golden-angle steps wrapped into [0, 2π).
func GoldenAngle(i int) float64 {
	a := math.Mod(float64(i)*goldenAngleRad, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Rotate turns p around the origin by angle.
func Rotate(p Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// DeterministicAngle hashes stable indices into an angle in [0, 2π).
func DeterministicAngle(domain, tier, node int) float64 {
	return GoldenAngle(domain*7 + tier*11 + node*13)
}

// DomainAngle returns the ring angle of domain i out of n. Slots start at
// the top of the chart and carry a small sinusoidal phase so successive
// rings of tiers do not line up.
func DomainAngle(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i)*(2*math.Pi/float64(n)) - math.Pi/2 + domainPhase(i)
}

func domainPhase(i int) float64 {
	return math.Sin(float64(i)*domainPhaseMul) * domainPhaseAmp
}

// Build places every domain, tier and node described by shape. Domain cores
// are the ring slots of PlaceDomains, each turned by its own phase.
func Build(cfg Config, shape Shape) Layout {
	slots := PlaceDomains(shape.DomainNames, cfg.CoreRadius)
	n := len(slots)
	ring := Ring(n, cfg.CoreRadius, -math.Pi/2)
	l := Layout{Domains: make([]DomainNode, 0, n)}

	for _, slot := range slots {
		i := slot.Slot
		angle := DomainAngle(i, n)
		dom := DomainNode{
			Index: i,
			Name:  slot.Name,
			Pos:   Rotate(ring[i], domainPhase(i)),
			Angle: angle,
		}

		tiers := 0
		if i < len(shape.NodeCounts) {
			tiers = len(shape.NodeCounts[i])
		}
		for t := 0; t < tiers; t++ {
			tierAngle := angle + (float64(t)-float64(tiers-1)/2)*tierFanStep + float64(i)*tierFanPerDom
			dist := 0.0
			visual := cfg.CoreVisual
			if t > 0 {
				dist = cfg.TierBaseOffset + float64(t-1)*cfg.TierSpacing + float64(i)*cfg.DomainStagger
				visual = cfg.TierVisual
			}
			tier := TierNode{
				Index:  t,
				Name:   tierName(shape, i, t),
				Pos:    Offset(dom.Pos, dist, tierAngle),
				Visual: visual,
			}
			tier.Nodes = placeNodes(cfg, tier.Pos, visual/2, i, t, shape.NodeCounts[i][t])
			dom.Tiers = append(dom.Tiers, tier)
		}

		l.Domains = append(l.Domains, dom)
	}
	return l
}

func placeNodes(cfg Config, center Point, pr float64, d, t, count int) []LeafNode {
	if count <= 0 {
		return nil
	}
	rmin := cfg.NodeMinRF * pr
	rmax := cfg.NodeMaxRF * pr

	nodes := make([]LeafNode, count)
	for n := 0; n < count; n++ {
		ang := DeterministicAngle(d, t, n) + float64(n)*nodeAngleStep
		frac := float64((n*29+t*17+d*19)%100) / 100 // [0, 1)
		rfrac := nodeFracLo + frac*nodeFracSpan
		r := rmin + (rmax-rmin)*((rfrac-nodeFracLo)/nodeFracSpan)
		nodes[n] = LeafNode{
			Index: n,
			Pos:   Offset(center, r, ang),
			R:     cfg.NodeIcon,
		}
	}
	return nodes
}

func tierName(shape Shape, d, t int) string {
	if d < len(shape.TierNames) && t < len(shape.TierNames[d]) {
		return shape.TierNames[d][t]
	}
	return ""
}

// Domain returns the placed domain at index i, or nil.
func (l *Layout) Domain(i int) *DomainNode {
	if l == nil || i < 0 || i >= len(l.Domains) {
		return nil
	}
	return &l.Domains[i]
}

// Tier returns the placed tier t of domain d, or nil.
func (l *Layout) Tier(d, t int) *TierNode {
	dom := l.Domain(d)
	if dom == nil || t < 0 || t >= len(dom.Tiers) {
		return nil
	}
	return &dom.Tiers[t]
}

// Node returns the placed node n of tier t of domain d, or nil.
func (l *Layout) Node(d, t, n int) *LeafNode {
	tier := l.Tier(d, t)
	if tier == nil || n < 0 || n >= len(tier.Nodes) {
		return nil
	}
	return &tier.Nodes[n]
}

// Extent returns the largest distance of any tier centre from the origin.
func (l *Layout) Extent() float64 {
	var extent float64
	for _, d := range l.Domains {
		for _, t := range d.Tiers {
			if r := math.Hypot(t.Pos.X, t.Pos.Y); r > extent {
				extent = r
			}
		}
	}
	return extent
}

// ControlPoint returns the control point of a quadratic curve between a and
// b, bent perpendicular to the chord by strength·|ab| (capped at maxOffset).
func ControlPoint(a, b Point, strength, maxOffset float64) Point {
	mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dist = 1
	}
	px, py := -dy/dist, dx/dist
	off := math.Min(dist*strength, maxOffset)
	return Point{X: mx + px*off, Y: my + py*off}
}

// Quadratic evaluates the quadratic Bézier a→c→b at t ∈ [0, 1].
func Quadratic(a, c, b Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*a.X + 2*u*t*c.X + t*t*b.X,
		Y: u*u*a.Y + 2*u*t*c.Y + t*t*b.Y,
	}
}
