package game

import (
	"time"
)

const (
	GridWidth  = 100
	GridHeight = 100
)

// Cooldowns and event timing, all taken from the classic ruleset.
const (
	PixelPlacementCooldown  = 10 * time.Second
	ColorBombCooldown       = 10 * time.Minute
	TerritoryShieldCooldown = 15 * time.Minute
	ShieldDuration          = 1 * time.Minute
	EventDuration           = 1 * time.Minute
	MinEventInterval        = 5 * time.Minute
	MaxEventInterval        = 20 * time.Minute
)

type TeamID string

const (
	TeamRed    TeamID = "red"
	TeamBlue   TeamID = "blue"
	TeamGreen  TeamID = "green"
	TeamYellow TeamID = "yellow"
)

type Team struct {
	ID    TeamID `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // hex
}

// Pixel is one cell of the canvas. Key is "x,y".
type Pixel struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Color       string `json:"color"`
	Team        TeamID `json:"teamId"`
	Weight      int    `json:"weight"` // scoring weight locked in at placement
	LastUpdated int64  `json:"lastUpdated"` // unix ms, LWW tiebreaker
}

// Rect is an axis-aligned area on the grid (events, shields, bombs).
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

type EventType string

const (
	EventGoldRush      EventType = "goldRush"
	EventPixelStorm    EventType = "pixelStorm"
	EventTerritoryWars EventType = "territoryWars"
)

// TimedEvent cycles between dormant and active forever. Exactly one of
// {StartTime/EndTime} or {NextOccurrence} is live at any instant.
type TimedEvent struct {
	Type           EventType `json:"type"`
	Active         bool      `json:"active"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	NextOccurrence time.Time `json:"nextOccurrence"`
	Description    string    `json:"description"`
	AffectedAreas  []Rect    `json:"affectedAreas,omitempty"`
}

type PowerUpType string

const (
	PowerUpColorBomb       PowerUpType = "colorBomb"
	PowerUpTerritoryShield PowerUpType = "territoryShield"
)

// PowerUp is a single use of a team power. It expires when EndTime passes but
// the re-use cooldown outlives it, tracked separately by the engine.
type PowerUp struct {
	Type        PowerUpType `json:"type"`
	Team        TeamID      `json:"teamId"`
	UserID      string      `json:"userId"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	CooldownEnd time.Time   `json:"cooldownEnd"`
	Area        Rect        `json:"affectedArea"`
}

type AchievementType string

const (
	AchievementPixelMilestone   AchievementType = "pixelMilestone"
	AchievementTerritoryControl AchievementType = "territoryControl"
	AchievementPatternBuilder   AchievementType = "patternBuilder"
)

type Achievement struct {
	ID          string          `json:"id"`
	Type        AchievementType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	Progress    int             `json:"progress"`
	MaxProgress int             `json:"maxProgress"`
	Reward      string          `json:"reward,omitempty"`
	Date        int64           `json:"date,omitempty"` // unix ms when completed
}

// User holds per-player state. A zero LastPlacement means the user has never
// placed a pixel.
type User struct {
	ID            string         `json:"id"`
	Team          TeamID         `json:"teamId"`
	Anonymous     bool           `json:"anonymous"`
	SelectedColor string         `json:"selectedColor"`
	LastPlacement time.Time      `json:"lastPixelPlacement"`
	PixelsPlaced  int            `json:"pixelsPlaced"`
	BaseCooldown  time.Duration  `json:"-"` // anon vs auth cooldown, set at creation
	Achievements  []*Achievement `json:"achievements"`
}
