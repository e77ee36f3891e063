package game

import (
	"math"
	"testing"
	"time"
)

func TestPercentagesEmptyCanvas(t *testing.T) {
	c := NewCanvas()
	for id, pct := range TeamPercentages(c) {
		if pct != 0 {
			t.Fatalf("empty canvas: %s = %f, want 0", id, pct)
		}
	}
}

func TestPercentagesSumToHundred(t *testing.T) {
	c := NewCanvas()
	now := time.Now()
	c.Write(0, 0, "#FF5555", TeamRed, 1, now)
	c.Write(1, 0, "#FF5555", TeamRed, 1, now)
	c.Write(2, 0, "#5555FF", TeamBlue, 1, now)

	pcts := TeamPercentages(c)
	sum := 0.0
	for _, pct := range pcts {
		sum += pct
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %f, want 100", sum)
	}
	if math.Abs(pcts[TeamRed]-100.0*2/3) > 1e-9 {
		t.Fatalf("red = %f, want %f", pcts[TeamRed], 100.0*2/3)
	}
}

func TestWeightedScores(t *testing.T) {
	c := NewCanvas()
	now := time.Now()
	c.Write(0, 0, "#FF5555", TeamRed, 1, now)
	c.Write(1, 0, "#FF5555", TeamRed, 2, now) // placed during gold rush
	c.Write(2, 0, "#5555FF", TeamBlue, 3, now) // placed in a territory wars zone

	scores := TeamScores(c)
	if scores[TeamRed] != 3 {
		t.Fatalf("red score = %d, want 3", scores[TeamRed])
	}
	if scores[TeamBlue] != 3 {
		t.Fatalf("blue score = %d, want 3", scores[TeamBlue])
	}
}

func TestPlacementWeightMultipliers(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)

	if w := g.placementWeight(5, 5); w != 1 {
		t.Fatalf("no events: weight = %d, want 1", w)
	}

	g.Events.forceActive(EventGoldRush, clock.Now(), nil)
	if w := g.placementWeight(5, 5); w != 2 {
		t.Fatalf("gold rush: weight = %d, want 2", w)
	}

	area := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	g.Events.forceActive(EventTerritoryWars, clock.Now(), []Rect{area})
	if w := g.placementWeight(5, 5); w != 6 {
		t.Fatalf("gold rush + territory wars: weight = %d, want 6", w)
	}
	if w := g.placementWeight(50, 50); w != 2 {
		t.Fatalf("outside war zone: weight = %d, want 2", w)
	}
}
