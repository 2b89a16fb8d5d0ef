package hover

import (
	"testing"

	"github.com/epic-tm/completionist/internal/layout"
)

// fixture builds a tiny hand-placed layout so distances are obvious.
func fixture() *layout.Layout {
	return &layout.Layout{Domains: []layout.DomainNode{{
		Index: 0,
		Pos:   layout.Point{X: 0, Y: 0},
		Tiers: []layout.TierNode{
			{Index: 0, Pos: layout.Point{X: 0, Y: 0}, Nodes: []layout.LeafNode{
				{Index: 0, Pos: layout.Point{X: 5, Y: 0}, R: 22},
			}},
			{Index: 1, Pos: layout.Point{X: 200, Y: 0}, Nodes: []layout.LeafNode{
				{Index: 0, Pos: layout.Point{X: 230, Y: 0}, R: 22},
				{Index: 1, Pos: layout.Point{X: 200, Y: 40}, R: 22},
			}},
		},
	}}}
}

var radii = Radii{Domain: 76.8, Tier: 64, NodeMin: 12, NodePad: 6}

func always(int, int) bool { return true }
func never(int, int) bool  { return false }

func TestResolve(t *testing.T) {
	l := fixture()

	tests := []struct {
		name     string
		w        layout.Point
		scale    float64
		eligible Eligibility
		want     Target
	}{
		{
			name:     "empty space",
			w:        layout.Point{X: 500, Y: 500},
			scale:    1,
			eligible: always,
			want:     None,
		},
		{
			name:     "domain core and tier 0 coincide: tier is more specific",
			w:        layout.Point{X: -20, Y: 0},
			scale:    1,
			eligible: never,
			want:     Target{Kind: KindTier, Domain: 0, Tier: 0, Node: -1},
		},
		{
			name:     "node closer than its tier wins",
			w:        layout.Point{X: 228, Y: 0},
			scale:    1,
			eligible: always,
			want:     Target{Kind: KindNode, Domain: 0, Tier: 1, Node: 0},
		},
		{
			name:     "hidden node is skipped even under the cursor",
			w:        layout.Point{X: 228, Y: 0},
			scale:    1,
			eligible: never,
			want:     Target{Kind: KindTier, Domain: 0, Tier: 1, Node: -1},
		},
		{
			name:     "tier closer than node wins",
			w:        layout.Point{X: 203, Y: 0},
			scale:    1,
			eligible: always,
			want:     Target{Kind: KindTier, Domain: 0, Tier: 1, Node: -1},
		},
		{
			name:     "node hit radius shrinks as scale grows",
			w:        layout.Point{X: 230, Y: 14},
			scale:    4,
			eligible: always,
			want:     Target{Kind: KindTier, Domain: 0, Tier: 1, Node: -1},
		},
		{
			name:     "node hit radius wide when zoomed out",
			w:        layout.Point{X: 230, Y: 14},
			scale:    1,
			eligible: always,
			want:     Target{Kind: KindNode, Domain: 0, Tier: 1, Node: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(l, tt.w, tt.scale, tt.eligible, radii)
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_TieGoesToMostSpecific(t *testing.T) {
	// A node sitting exactly on its tier centre ties on distance.
	l := &layout.Layout{Domains: []layout.DomainNode{{
		Index: 0,
		Pos:   layout.Point{X: 1000, Y: 1000},
		Tiers: []layout.TierNode{{
			Index: 2,
			Pos:   layout.Point{X: 0, Y: 0},
			Nodes: []layout.LeafNode{{Index: 3, Pos: layout.Point{X: 0, Y: 0}, R: 22}},
		}},
	}}}

	got := Resolve(l, layout.Point{X: 1, Y: 1}, 1, always, radii)
	want := Target{Kind: KindNode, Domain: 0, Tier: 2, Node: 3}
	if got != want {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_NilLayout(t *testing.T) {
	if got := Resolve(nil, layout.Point{}, 1, always, radii); !got.IsNone() {
		t.Errorf("Resolve(nil) = %v, want none", got)
	}
}

func TestShowNodes(t *testing.T) {
	zoomedOut := ShowNodes(0.5, 1.05, 1, 2)
	if !zoomedOut(1, 2) {
		t.Error("focused tier should show nodes while zoomed out")
	}
	if zoomedOut(1, 3) {
		t.Error("unfocused tier should hide nodes while zoomed out")
	}

	zoomedIn := ShowNodes(1.2, 1.05, -1, -1)
	if !zoomedIn(4, 4) {
		t.Error("every tier shows nodes when zoomed in")
	}
}

func TestRouter_Idempotent(t *testing.T) {
	var enters, leaves int
	r := NewRouter()
	r.OnEnter = func(Target) { enters++ }
	r.OnLeave = func(Target) { leaves++ }

	node := Target{Kind: KindNode, Domain: 0, Tier: 1, Node: 0}

	first, changed := r.Update(node)
	if !changed || first != node {
		t.Fatalf("first Update = %v, %v", first, changed)
	}
	second, changed := r.Update(node)
	if changed {
		t.Error("second Update with same target reported a change")
	}
	if second != first {
		t.Errorf("second result %v differs from first %v", second, first)
	}
	if enters != 1 {
		t.Errorf("enter fired %d times, want 1", enters)
	}

	tier := Target{Kind: KindTier, Domain: 0, Tier: 1, Node: -1}
	r.Update(tier)
	if enters != 2 || leaves != 1 {
		t.Errorf("after switch enters=%d leaves=%d, want 2 and 1", enters, leaves)
	}

	if !r.Clear() {
		t.Error("Clear should report a change")
	}
	if r.Clear() {
		t.Error("second Clear should be a no-op")
	}
	if leaves != 2 {
		t.Errorf("leaves = %d, want 2", leaves)
	}
}

func TestRouter_ResolveTwiceSamePointer(t *testing.T) {
	l := fixture()
	enters := 0
	r := NewRouter()
	r.OnEnter = func(Target) { enters++ }

	w := layout.Point{X: 228, Y: 0}
	a, _ := r.Update(Resolve(l, w, 1, always, radii))
	b, _ := r.Update(Resolve(l, w, 1, always, radii))

	if a != b {
		t.Errorf("results differ: %v vs %v", a, b)
	}
	if enters != 1 {
		t.Errorf("enter fired %d times, want 1", enters)
	}
}

func TestTargetString(t *testing.T) {
	tests := []struct {
		t    Target
		want string
	}{
		{None, "none"},
		{Target{Kind: KindDomain, Domain: 1}, "domain[1]"},
		{Target{Kind: KindTier, Domain: 1, Tier: 2}, "tier[1/2]"},
		{Target{Kind: KindNode, Domain: 1, Tier: 2, Node: 3}, "node[1/2/3]"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
