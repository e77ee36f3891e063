package storage

import (
	"time"
)

// User is the persisted player profile.
type User struct {
	ID            string `gorm:"primaryKey;size:64"`
	Team          string `gorm:"size:16;index"`
	Anonymous     bool
	SelectedColor string `gorm:"size:8"`
	LastPlacement *time.Time
	PixelsPlaced  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Pixel is one canvas cell. Last-write-wins is enforced on upsert: an
// incoming row only lands when its LastUpdated is newer than the stored one.
type Pixel struct {
	X           int    `gorm:"primaryKey"`
	Y           int    `gorm:"primaryKey"`
	Color       string `gorm:"size:8"`
	Team        string `gorm:"size:16;index"`
	Weight      int
	LastUpdated int64 `gorm:"index"`
}

// PowerUpCooldown survives restarts so a bounce never refunds a bomb.
type PowerUpCooldown struct {
	UserID      string `gorm:"primaryKey;size:64"`
	Type        string `gorm:"primaryKey;size:32"`
	CooldownEnd time.Time
	UpdatedAt   time.Time
}

// UserAchievement is one rung of a user's achievement ladder.
type UserAchievement struct {
	UserID        string `gorm:"primaryKey;size:64"`
	AchievementID string `gorm:"primaryKey;size:64"`
	Progress      int
	Completed     bool
	CompletedAt   *time.Time
	UpdatedAt     time.Time
}
