package game

import (
	"testing"
	"time"
)

func newTestGame(clock *fakeClock) *Game {
	return New(Config{Now: clock.Now})
}

func joinedUser(g *Game, team TeamID) string {
	u := g.EnsureUser("", true)
	g.JoinTeam(u.ID, team)
	return u.ID
}

func TestColorBombWritesBlock(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)

	res := g.UseColorBomb(red, 10, 10)
	if res.Code != PlaceAccepted {
		t.Fatalf("bomb rejected: %s", res.Code)
	}
	if len(res.Pixels) != 4 {
		t.Fatalf("wrote %d pixels, want 4", len(res.Pixels))
	}
	for _, xy := range [][2]int{{10, 10}, {11, 10}, {10, 11}, {11, 11}} {
		p, ok := g.ReadPixel(xy[0], xy[1])
		if !ok || p.Team != TeamRed {
			t.Fatalf("expected red pixel at (%d,%d)", xy[0], xy[1])
		}
	}
}

func TestColorBombClipsAtEdge(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)

	res := g.UseColorBomb(red, GridWidth-1, GridHeight-1)
	if res.Code != PlaceAccepted {
		t.Fatalf("bomb rejected: %s", res.Code)
	}
	if len(res.Pixels) != 1 {
		t.Fatalf("wrote %d pixels at corner, want 1", len(res.Pixels))
	}
}

func TestColorBombCooldown(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)

	g.UseColorBomb(red, 0, 0)
	bomb, _ := g.PowerUpCooldowns(red)
	if bomb != ColorBombCooldown {
		t.Fatalf("bomb cooldown = %v, want %v", bomb, ColorBombCooldown)
	}
	if res := g.UseColorBomb(red, 5, 5); res.Code != PlaceRejectedCooldown {
		t.Fatalf("second bomb code = %s, want cooldown rejection", res.Code)
	}

	clock.Advance(ColorBombCooldown)
	if res := g.UseColorBomb(red, 5, 5); res.Code != PlaceAccepted {
		t.Fatalf("bomb after cooldown code = %s, want accepted", res.Code)
	}
}

func TestColorBombRequiresTeam(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	u := g.EnsureUser("", true)

	if res := g.UseColorBomb(u.ID, 0, 0); res.Code != PlaceRejectedNoTeam {
		t.Fatalf("code = %s, want no-team rejection", res.Code)
	}
}

func TestTerritoryShieldBlocksOpponents(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)
	blue := joinedUser(g, TeamBlue)

	res := g.UseTerritoryShield(red, 10, 10)
	if res.Code != PlaceAccepted {
		t.Fatalf("shield rejected: %s", res.Code)
	}
	want := Rect{X: 8, Y: 8, Width: 5, Height: 5}
	if res.PowerUp.Area != want {
		t.Fatalf("shield area %+v, want %+v", res.PowerUp.Area, want)
	}
	if got := res.PowerUp.EndTime.Sub(clock.Now()); got != ShieldDuration {
		t.Fatalf("shield lasts %v, want %v", got, ShieldDuration)
	}

	// Opposing team rejected inside the area, own team passes
	if got := g.PlacePixel(blue, 9, 9); got.Code != PlaceRejectedShielded {
		t.Fatalf("blue inside shield: %s, want shielded rejection", got.Code)
	}
	if got := g.PlacePixel(red, 9, 9); got.Code != PlaceAccepted {
		t.Fatalf("red inside own shield: %s, want accepted", got.Code)
	}
	// Outside the area placement is ordinary
	if got := g.PlacePixel(blue, 50, 50); got.Code != PlaceAccepted {
		t.Fatalf("blue outside shield: %s, want accepted", got.Code)
	}
}

func TestTerritoryShieldExpires(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)
	blue := joinedUser(g, TeamBlue)

	g.UseTerritoryShield(red, 10, 10)
	clock.Advance(ShieldDuration + time.Millisecond)

	if got := g.PlacePixel(blue, 10, 10); got.Code != PlaceAccepted {
		t.Fatalf("after expiry: %s, want accepted", got.Code)
	}
	// Cooldown outlives the effect
	_, shield := g.PowerUpCooldowns(red)
	if shield == 0 {
		t.Fatal("expected shield cooldown to keep running after expiry")
	}
}

func TestActivePowerUpsPrunedLazily(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)

	g.UseTerritoryShield(red, 10, 10)
	if got := len(g.Stats().PowerUps); got != 1 {
		t.Fatalf("active power-ups = %d, want 1", got)
	}

	clock.Advance(ShieldDuration + time.Millisecond)
	if got := len(g.Stats().PowerUps); got != 0 {
		t.Fatalf("active power-ups after expiry = %d, want 0", got)
	}
}

func TestBombSkipsOpposingShieldedCells(t *testing.T) {
	clock := newFakeClock()
	g := newTestGame(clock)
	red := joinedUser(g, TeamRed)
	blue := joinedUser(g, TeamBlue)

	// Red shield covering (8..12, 8..12); blue bomb at (11,11) overlaps at
	// (11,11),(12,11),(11,12),(12,12) — all shielded
	g.UseTerritoryShield(red, 10, 10)
	res := g.UseColorBomb(blue, 11, 11)
	if res.Code != PlaceAccepted {
		t.Fatalf("bomb rejected: %s", res.Code)
	}
	if len(res.Pixels) != 0 {
		t.Fatalf("bomb wrote %d shielded cells, want 0", len(res.Pixels))
	}
}
