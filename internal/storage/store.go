package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps a gorm DB and provides helpers for persisting game state. A
// nil Store is valid and turns every call into a no-op, which is how the
// server runs memory-only without a DATABASE_URL.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// UpsertUser writes the full profile row.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&u).Error
}

// LoadUsers fetches every persisted profile for startup hydration.
func (s *Store) LoadUsers(ctx context.Context) ([]User, error) {
	if s == nil {
		return nil, nil
	}
	var users []User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpsertPixel applies a cell write with last-write-wins semantics: the row
// is only replaced when the incoming timestamp is newer, so concurrent
// replicas converge no matter the arrival order.
func (s *Store) UpsertPixel(ctx context.Context, p Pixel) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "x"}, {Name: "y"}},
			DoUpdates: clause.AssignmentColumns([]string{"color", "team", "weight", "last_updated"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "excluded.last_updated > pixels.last_updated"},
			}},
		}).
		Create(&p).Error
}

// LoadPixels fetches the whole canvas.
func (s *Store) LoadPixels(ctx context.Context) ([]Pixel, error) {
	if s == nil {
		return nil, nil
	}
	var pixels []Pixel
	if err := s.db.WithContext(ctx).Find(&pixels).Error; err != nil {
		return nil, err
	}
	return pixels, nil
}

// SavePowerUpCooldown upserts one user's cooldown for one power-up type.
func (s *Store) SavePowerUpCooldown(ctx context.Context, c PowerUpCooldown) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&c).Error
}

// LoadPowerUpCooldowns fetches all persisted power-up cooldowns.
func (s *Store) LoadPowerUpCooldowns(ctx context.Context) ([]PowerUpCooldown, error) {
	if s == nil {
		return nil, nil
	}
	var cooldowns []PowerUpCooldown
	if err := s.db.WithContext(ctx).Find(&cooldowns).Error; err != nil {
		return nil, err
	}
	return cooldowns, nil
}

// SaveAchievements upserts a user's achievement rows.
func (s *Store) SaveAchievements(ctx context.Context, rows []UserAchievement) error {
	if s == nil || len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// LoadAchievements fetches one user's achievement rows.
func (s *Store) LoadAchievements(ctx context.Context, userID string) ([]UserAchievement, error) {
	if s == nil {
		return nil, nil
	}
	var rows []UserAchievement
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
