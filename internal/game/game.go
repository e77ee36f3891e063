package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/outlndrr-pr/pixel-wars/internal/logging"
)

// Game owns all mutable state: canvas, users, power-ups. Every mutating call
// goes through its lock, so placement arbitration is serialized in one place.
// The event scheduler carries its own lock because a separate goroutine
// drives it.
type Game struct {
	Mu       sync.RWMutex
	canvas   *Canvas
	users    map[string]*User
	powerUps *PowerUpEngine
	Events   *EventScheduler

	now          func() time.Time
	anonCooldown time.Duration
	authCooldown time.Duration
}

// Config tunes the game at construction. Zero values fall back to the
// classic rules.
type Config struct {
	AnonCooldown time.Duration
	AuthCooldown time.Duration
	Now          func() time.Time
	Rand         *rand.Rand
}

func New(cfg Config) *Game {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.AnonCooldown <= 0 {
		cfg.AnonCooldown = PixelPlacementCooldown
	}
	if cfg.AuthCooldown <= 0 {
		cfg.AuthCooldown = PixelPlacementCooldown
	}
	return &Game{
		canvas:       NewCanvas(),
		users:        make(map[string]*User),
		powerUps:     NewPowerUpEngine(),
		Events:       NewEventScheduler(cfg.Now, cfg.Rand),
		now:          cfg.Now,
		anonCooldown: cfg.AnonCooldown,
		authCooldown: cfg.AuthCooldown,
	}
}

// PlaceCode classifies a placement attempt. Rejections are expected traffic
// (most clicks land during a cooldown), so they are results, not errors.
type PlaceCode string

const (
	PlaceAccepted            PlaceCode = "accepted"
	PlaceRejectedUnknownUser PlaceCode = "rejected:unknownUser"
	PlaceRejectedNoTeam      PlaceCode = "rejected:noTeam"
	PlaceRejectedCooldown    PlaceCode = "rejected:cooldown"
	PlaceRejectedShielded    PlaceCode = "rejected:shielded"
	PlaceRejectedOutOfBounds PlaceCode = "rejected:outOfBounds"
)

// PlaceResult reports one placement attempt.
type PlaceResult struct {
	Code      PlaceCode      `json:"code"`
	Pixel     *Pixel         `json:"pixel,omitempty"`
	Cooldown  time.Duration  `json:"-"`
	Completed []*Achievement `json:"achievements,omitempty"`
}

// BombResult reports a color bomb attempt with the cells it actually wrote.
type BombResult struct {
	Code   PlaceCode `json:"code"`
	Pixels []Pixel   `json:"pixels,omitempty"`
}

// ShieldResult reports a territory shield attempt.
type ShieldResult struct {
	Code    PlaceCode `json:"code"`
	PowerUp *PowerUp  `json:"powerUp,omitempty"`
}

// EnsureUser returns the user with the given id, creating a fresh profile on
// first sight. An empty id mints a new one.
func (g *Game) EnsureUser(id string, anonymous bool) User {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	u, ok := g.users[id]
	if !ok {
		base := g.authCooldown
		if anonymous {
			base = g.anonCooldown
		}
		u = &User{
			ID:            id,
			Anonymous:     anonymous,
			SelectedColor: Teams[0].Color,
			BaseCooldown:  base,
			Achievements:  DefaultAchievements(),
		}
		g.users[id] = u
		logging.Debugf("created user %s (anonymous=%v)", id, anonymous)
	}
	return snapshotUser(u)
}

// UserState returns a copy of the user, or false when unknown.
func (g *Game) UserState(id string) (User, bool) {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	u, ok := g.users[id]
	if !ok {
		return User{}, false
	}
	return snapshotUser(u), true
}

func snapshotUser(u *User) User {
	cp := *u
	cp.Achievements = make([]*Achievement, len(u.Achievements))
	for i, a := range u.Achievements {
		ac := *a
		cp.Achievements[i] = &ac
	}
	return cp
}

// JoinTeam puts the user on a team and resets their selected color to the
// team color. Joining again switches teams.
func (g *Game) JoinTeam(userID string, team TeamID) bool {
	t, ok := TeamByID(team)
	if !ok {
		return false
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		return false
	}
	u.Team = team
	u.SelectedColor = t.Color
	return true
}

// SetColor changes the color the user paints with. Malformed colors are
// rejected with no effect.
func (g *Game) SetColor(userID, color string) bool {
	if !isHexColor(color) {
		return false
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		return false
	}
	u.SelectedColor = color
	return true
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// placementWeight locks in the scoring multipliers active right now for a
// pixel at (x, y).
func (g *Game) placementWeight(x, y int) int {
	w := 1
	if g.Events.IsActive(EventGoldRush) {
		w *= 2
	}
	for _, area := range g.Events.ActiveAreas() {
		if area.Contains(x, y) {
			w *= 3
			break
		}
	}
	return w
}

// PlacePixel runs the full arbitration pipeline: team check, cooldown check,
// shield conflict, canvas write, cooldown arm, achievement refresh.
func (g *Game) PlacePixel(userID string, x, y int) PlaceResult {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		return PlaceResult{Code: PlaceRejectedUnknownUser}
	}
	if u.Team == "" {
		return PlaceResult{Code: PlaceRejectedNoTeam}
	}
	if !g.canvas.InBounds(x, y) {
		return PlaceResult{Code: PlaceRejectedOutOfBounds}
	}
	now := g.now()
	if remaining := CooldownRemaining(u, g.Events, now); remaining > 0 {
		return PlaceResult{Code: PlaceRejectedCooldown, Cooldown: remaining}
	}
	if g.powerUps.ShieldConflict(x, y, u.Team, now) {
		return PlaceResult{Code: PlaceRejectedShielded}
	}

	p := g.canvas.Write(x, y, u.SelectedColor, u.Team, g.placementWeight(x, y), now)
	u.LastPlacement = now
	u.PixelsPlaced++

	pct := TeamPercentages(g.canvas)[u.Team]
	completed := updateAchievements(u, g.canvas, x, y, pct, now)

	return PlaceResult{
		Code:      PlaceAccepted,
		Pixel:     p,
		Cooldown:  EffectiveCooldown(u.BaseCooldown, g.Events),
		Completed: completed,
	}
}

// UseColorBomb writes a 2x2 block at (x, y) in one shot, clipped to the
// grid: cells off the edge or under an opposing shield are skipped, not
// fatal. Instant effect, so the power-up expires the moment it lands.
func (g *Game) UseColorBomb(userID string, x, y int) BombResult {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		return BombResult{Code: PlaceRejectedUnknownUser}
	}
	if u.Team == "" {
		return BombResult{Code: PlaceRejectedNoTeam}
	}
	if !g.canvas.InBounds(x, y) {
		return BombResult{Code: PlaceRejectedOutOfBounds}
	}
	now := g.now()
	if !g.powerUps.CanUse(u, PowerUpColorBomb, now) {
		return BombResult{Code: PlaceRejectedCooldown}
	}

	var written []Pixel
	for dx := 0; dx < 2; dx++ {
		for dy := 0; dy < 2; dy++ {
			nx, ny := x+dx, y+dy
			if !g.canvas.InBounds(nx, ny) {
				continue
			}
			if g.powerUps.ShieldConflict(nx, ny, u.Team, now) {
				continue
			}
			p := g.canvas.Write(nx, ny, u.SelectedColor, u.Team, g.placementWeight(nx, ny), now)
			written = append(written, *p)
		}
	}

	g.powerUps.register(PowerUp{
		Type:        PowerUpColorBomb,
		Team:        u.Team,
		UserID:      u.ID,
		StartTime:   now,
		EndTime:     now,
		CooldownEnd: now.Add(ColorBombCooldown),
		Area:        Rect{X: x, Y: y, Width: 2, Height: 2},
	})
	return BombResult{Code: PlaceAccepted, Pixels: written}
}

// UseTerritoryShield registers a 5x5 protected area centered on (x, y) for
// one minute. It writes no pixels; the protection is enforced on every
// later placement check.
func (g *Game) UseTerritoryShield(userID string, x, y int) ShieldResult {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		return ShieldResult{Code: PlaceRejectedUnknownUser}
	}
	if u.Team == "" {
		return ShieldResult{Code: PlaceRejectedNoTeam}
	}
	if !g.canvas.InBounds(x, y) {
		return ShieldResult{Code: PlaceRejectedOutOfBounds}
	}
	now := g.now()
	if !g.powerUps.CanUse(u, PowerUpTerritoryShield, now) {
		return ShieldResult{Code: PlaceRejectedCooldown}
	}

	p := PowerUp{
		Type:        PowerUpTerritoryShield,
		Team:        u.Team,
		UserID:      u.ID,
		StartTime:   now,
		EndTime:     now.Add(ShieldDuration),
		CooldownEnd: now.Add(TerritoryShieldCooldown),
		Area:        Rect{X: x - 2, Y: y - 2, Width: 5, Height: 5},
	}
	g.powerUps.register(p)
	return ShieldResult{Code: PlaceAccepted, PowerUp: &p}
}

// CooldownRemaining for the ordinary placement path.
func (g *Game) CooldownRemaining(userID string) time.Duration {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	return CooldownRemaining(g.users[userID], g.Events, g.now())
}

// PowerUpCooldowns returns the remaining bomb and shield cooldowns.
func (g *Game) PowerUpCooldowns(userID string) (bomb, shield time.Duration) {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	now := g.now()
	return g.powerUps.CooldownRemaining(userID, PowerUpColorBomb, now),
		g.powerUps.CooldownRemaining(userID, PowerUpTerritoryShield, now)
}

// Stats is the derived game view pushed to clients.
type Stats struct {
	Counts      map[TeamID]int     `json:"counts"`
	Percentages map[TeamID]float64 `json:"percentages"`
	Scores      map[TeamID]int     `json:"scores"`
	TotalPixels int                `json:"totalPixels"`
	Events      []TimedEvent       `json:"events"`
	PowerUps    []PowerUp          `json:"powerUps"`
}

func (g *Game) Stats() Stats {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return Stats{
		Counts:      TeamCounts(g.canvas),
		Percentages: TeamPercentages(g.canvas),
		Scores:      TeamScores(g.canvas),
		TotalPixels: g.canvas.PixelCount(),
		Events:      g.Events.Events(),
		PowerUps:    g.powerUps.Active(g.now()),
	}
}

// Occupancy is the binary team-code grid for the broadcast ticker.
func (g *Game) Occupancy() []uint8 {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	return g.canvas.Occupancy()
}

// CanvasSnapshot copies the full pixel map.
func (g *Game) CanvasSnapshot() map[string]Pixel {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	return g.canvas.Snapshot()
}

// TeamCount recounts one team's pixels.
func (g *Game) TeamCount(team TeamID) int {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	return g.canvas.TeamCount(team)
}

// ReadPixel returns a copy of the pixel at (x, y), or false for empty or
// out-of-bounds cells.
func (g *Game) ReadPixel(x, y int) (Pixel, bool) {
	g.Mu.RLock()
	defer g.Mu.RUnlock()
	p := g.canvas.Read(x, y)
	if p == nil {
		return Pixel{}, false
	}
	return *p, true
}

// RestorePixel merges a persisted pixel during startup hydration. LWW by
// timestamp, so replays and out-of-order loads are safe.
func (g *Game) RestorePixel(p Pixel) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.canvas.Merge(p)
}

// RestoreUser rehydrates a persisted profile.
func (g *Game) RestoreUser(u User) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	cp := snapshotUser(&u)
	if cp.BaseCooldown <= 0 {
		if cp.Anonymous {
			cp.BaseCooldown = g.anonCooldown
		} else {
			cp.BaseCooldown = g.authCooldown
		}
	}
	if cp.SelectedColor == "" {
		cp.SelectedColor = Teams[0].Color
	}
	if len(cp.Achievements) == 0 {
		cp.Achievements = DefaultAchievements()
	}
	g.users[cp.ID] = &cp
}

// RestorePowerUpCooldown rehydrates a persisted power-up cooldown.
func (g *Game) RestorePowerUpCooldown(userID string, typ PowerUpType, end time.Time) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.powerUps.RestoreCooldown(userID, typ, end)
}
