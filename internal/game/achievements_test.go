package game

import (
	"testing"
	"time"
)

func findAchievement(u User, id string) *Achievement {
	for _, a := range u.Achievements {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func TestPixelMilestoneProgress(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)

	var lastCompleted []*Achievement
	for i := 0; i < 10; i++ {
		res := g.PlacePixel(red, i, 0)
		if res.Code != PlaceAccepted {
			t.Fatalf("placement %d rejected: %s", i, res.Code)
		}
		lastCompleted = res.Completed
		clock.Advance(PixelPlacementCooldown)
	}

	u, _ := g.UserState(red)
	a := findAchievement(u, "pixel-10")
	if a == nil || !a.Completed {
		t.Fatal("expected pixel-10 completed after 10 placements")
	}
	found := false
	for _, c := range lastCompleted {
		if c.ID == "pixel-10" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected pixel-10 reported on the completing placement")
	}
	if b := findAchievement(u, "pixel-50"); b.Completed || b.Progress != 10 {
		t.Fatalf("pixel-50 progress = %d completed = %v, want 10/false", b.Progress, b.Completed)
	}
}

func TestPatternSquare(t *testing.T) {
	c := NewCanvas()
	now := time.Now()
	for dx := 0; dx < 3; dx++ {
		for dy := 0; dy < 3; dy++ {
			c.Write(20+dx, 20+dy, "#FF5555", TeamRed, 1, now)
		}
	}
	if !hasSquareAt(c, 22, 22, 3) {
		t.Fatal("expected 3x3 square detected from its corner")
	}
	if !hasSquareAt(c, 21, 21, 3) {
		t.Fatal("expected 3x3 square detected from its center")
	}
	// A hole breaks it
	c.Write(21, 21, "#5555FF", TeamBlue, 1, now.Add(time.Millisecond))
	if hasSquareAt(c, 20, 20, 3) {
		t.Fatal("expected no square with a recolored center")
	}
}

func TestPatternLine(t *testing.T) {
	c := NewCanvas()
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Write(30+i, 7, "#FFFF55", TeamYellow, 1, now)
	}
	if !hasLineAt(c, 32, 7, 5) {
		t.Fatal("expected horizontal line detected from its middle")
	}
	if hasLineAt(c, 32, 8, 5) {
		t.Fatal("expected no line on an empty row")
	}

	for i := 0; i < 5; i++ {
		c.Write(3, 40+i, "#55AA55", TeamGreen, 1, now)
	}
	if !hasLineAt(c, 3, 44, 5) {
		t.Fatal("expected vertical line detected from its end")
	}
}

func TestAchievementProgressMonotonic(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)
	blue := joinedUser(g, TeamBlue)

	// Red alone: 100% territory, both control rungs complete
	g.PlacePixel(red, 0, 0)
	u, _ := g.UserState(red)
	if a := findAchievement(u, "territory-25"); !a.Completed {
		t.Fatal("expected territory-25 completed at 100% control")
	}

	// Blue floods in: red share collapses but progress must not regress
	clock.Advance(PixelPlacementCooldown)
	for i := 0; i < 9; i++ {
		g.PlacePixel(blue, i, 50)
		clock.Advance(PixelPlacementCooldown)
	}
	g.PlacePixel(red, 1, 0)
	u, _ = g.UserState(red)
	a := findAchievement(u, "territory-25")
	if !a.Completed || a.Progress < a.MaxProgress {
		t.Fatalf("territory-25 regressed: progress %d completed %v", a.Progress, a.Completed)
	}
}
