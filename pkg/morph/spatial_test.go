package morph

import (
	"math"
	"sort"
	"testing"

	"morphogen/pkg/core"
)

// The grid answers must agree with a brute-force scan over the same points.
func TestWithinMatchesBruteForce(t *testing.T) {
	rng := core.NewRNG(2024)
	bounds := core.NewBounds(core.Vec3{X: -15, Y: -15, Z: -15}, core.Vec3{X: 15, Y: 15, Z: 15})
	g := NewGraph(400, 3)
	var positions []core.Vec3
	for i := 0; i < 300; i++ {
		p := bounds.RandomPoint(rng)
		g.CreateNode(p)
		positions = append(positions, p)
	}

	for trial := 0; trial < 50; trial++ {
		center := bounds.RandomPoint(rng)
		radius := rng.Range(0.5, 8)

		var got []NodeID
		g.Within(center, radius, func(id NodeID, dist float64) bool {
			got = append(got, id)
			return true
		})

		var want []NodeID
		for i, p := range positions {
			if p.Dist(center) <= radius {
				want = append(want, NodeID(i))
			}
		}

		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		if len(got) != len(want) {
			t.Fatalf("trial %d: got %d hits, want %d", trial, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("trial %d: hit sets differ at %d: %d vs %d", trial, i, got[i], want[i])
			}
		}
	}
}

func TestNearestDistanceMatchesBruteForce(t *testing.T) {
	rng := core.NewRNG(77)
	bounds := core.NewBounds(core.Vec3{X: -10, Y: 0, Z: -10}, core.Vec3{X: 10, Y: 20, Z: 10})
	g := NewGraph(200, 3)
	var positions []core.Vec3
	for i := 0; i < 120; i++ {
		p := bounds.RandomPoint(rng)
		g.CreateNode(p)
		positions = append(positions, p)
	}

	for trial := 0; trial < 50; trial++ {
		// Probe both inside and well outside the populated volume.
		probe := bounds.RandomPoint(rng)
		if trial%5 == 0 {
			probe = probe.Add(core.Vec3{X: 40, Y: 40, Z: 40})
		}
		want := math.Inf(1)
		for _, p := range positions {
			if d := p.Dist(probe); d < want {
				want = d
			}
		}
		got := g.NearestDistance(probe)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("trial %d: NearestDistance = %v, brute force = %v", trial, got, want)
		}
	}
}

// A hit near the far corner of the center cell must not stop the shell walk
// before a closer node two shells out is seen.
func TestNearestDistanceCornerHitDoesNotMaskFarShell(t *testing.T) {
	g := NewGraph(10, 1)
	corner := core.Vec3{X: 0.01, Y: 0.99, Z: 0.99}
	beyond := core.Vec3{X: 2.01, Y: 0.5, Z: 0.5}
	g.CreateNode(corner)
	g.CreateNode(beyond)

	query := core.Vec3{X: 0.99, Y: 0.5, Z: 0.5}
	if beyond.Dist(query) >= corner.Dist(query) {
		t.Fatal("setup broken: the far-cell node must be the closer one")
	}
	got := g.NearestDistance(query)
	if math.Abs(got-beyond.Dist(query)) > 1e-9 {
		t.Fatalf("NearestDistance = %v, want %v", got, beyond.Dist(query))
	}
}

func TestNearestDistanceEmpty(t *testing.T) {
	g := NewGraph(10, 3)
	if !math.IsInf(g.NearestDistance(core.Vec3{}), 1) {
		t.Fatal("empty graph must report +Inf")
	}
}

func TestHasWithin(t *testing.T) {
	g := NewGraph(10, 2)
	g.CreateNode(core.Vec3{X: 5})
	if g.HasWithin(core.Vec3{}, 4.9) {
		t.Fatal("node at distance 5 reported inside radius 4.9")
	}
	if !g.HasWithin(core.Vec3{}, 5.0) {
		t.Fatal("node at distance 5 missed inside radius 5.0")
	}
}

func TestWithinEarlyExit(t *testing.T) {
	g := NewGraph(10, 2)
	for i := 0; i < 5; i++ {
		g.CreateNode(core.Vec3{X: float64(i) * 0.1})
	}
	visits := 0
	g.Within(core.Vec3{}, 10, func(NodeID, float64) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Fatalf("visit ran %d times after returning false", visits)
	}
}
