package server

import (
	"context"
	"log"
	"time"

	"github.com/outlndrr-pr/pixel-wars/internal/game"
	"github.com/outlndrr-pr/pixel-wars/internal/storage"
)

// Persistence glue between the in-memory game and the store. All writes are
// best-effort: a store error degrades durability, never gameplay, so it is
// logged and swallowed here.

func persistUser(ctx context.Context, st *storage.Store, g *game.Game, userID string) {
	if st == nil {
		return
	}
	u, ok := g.UserState(userID)
	if !ok {
		return
	}
	row := storage.User{
		ID:            u.ID,
		Team:          string(u.Team),
		Anonymous:     u.Anonymous,
		SelectedColor: u.SelectedColor,
		PixelsPlaced:  u.PixelsPlaced,
	}
	if !u.LastPlacement.IsZero() {
		t := u.LastPlacement
		row.LastPlacement = &t
	}
	if err := st.UpsertUser(ctx, row); err != nil {
		log.Println("persist user error:", err)
		return
	}
	rows := make([]storage.UserAchievement, 0, len(u.Achievements))
	for _, a := range u.Achievements {
		r := storage.UserAchievement{
			UserID:        u.ID,
			AchievementID: a.ID,
			Progress:      a.Progress,
			Completed:     a.Completed,
		}
		if a.Date > 0 {
			t := time.UnixMilli(a.Date)
			r.CompletedAt = &t
		}
		rows = append(rows, r)
	}
	if err := st.SaveAchievements(ctx, rows); err != nil {
		log.Println("persist achievements error:", err)
	}
}

func persistPixels(ctx context.Context, st *storage.Store, pixels []game.Pixel) {
	if st == nil {
		return
	}
	for _, p := range pixels {
		row := storage.Pixel{
			X:           p.X,
			Y:           p.Y,
			Color:       p.Color,
			Team:        string(p.Team),
			Weight:      p.Weight,
			LastUpdated: p.LastUpdated,
		}
		if err := st.UpsertPixel(ctx, row); err != nil {
			log.Println("persist pixel error:", err)
		}
	}
}

func persistPowerUpCooldown(ctx context.Context, st *storage.Store, g *game.Game, userID string, typ game.PowerUpType) {
	if st == nil {
		return
	}
	bomb, shield := g.PowerUpCooldowns(userID)
	remaining := bomb
	if typ == game.PowerUpTerritoryShield {
		remaining = shield
	}
	if remaining <= 0 {
		return
	}
	row := storage.PowerUpCooldown{
		UserID:      userID,
		Type:        string(typ),
		CooldownEnd: time.Now().Add(remaining),
	}
	if err := st.SavePowerUpCooldown(ctx, row); err != nil {
		log.Println("persist power-up cooldown error:", err)
	}
}

// Hydrate loads persisted state into a fresh game at startup. Pixel loads
// merge by timestamp, so hydrating twice is harmless.
func Hydrate(ctx context.Context, st *storage.Store, g *game.Game) error {
	if st == nil {
		return nil
	}

	pixels, err := st.LoadPixels(ctx)
	if err != nil {
		return err
	}
	for _, row := range pixels {
		g.RestorePixel(game.Pixel{
			X:           row.X,
			Y:           row.Y,
			Color:       row.Color,
			Team:        game.TeamID(row.Team),
			Weight:      row.Weight,
			LastUpdated: row.LastUpdated,
		})
	}

	users, err := st.LoadUsers(ctx)
	if err != nil {
		return err
	}
	for _, row := range users {
		u := game.User{
			ID:            row.ID,
			Team:          game.TeamID(row.Team),
			Anonymous:     row.Anonymous,
			SelectedColor: row.SelectedColor,
			PixelsPlaced:  row.PixelsPlaced,
			Achievements:  game.DefaultAchievements(),
		}
		if row.LastPlacement != nil {
			u.LastPlacement = *row.LastPlacement
		}
		achRows, err := st.LoadAchievements(ctx, row.ID)
		if err != nil {
			return err
		}
		for _, ar := range achRows {
			for _, a := range u.Achievements {
				if a.ID != ar.AchievementID {
					continue
				}
				a.Progress = ar.Progress
				a.Completed = ar.Completed
				if ar.CompletedAt != nil {
					a.Date = ar.CompletedAt.UnixMilli()
				}
				break
			}
		}
		g.RestoreUser(u)
	}

	cooldowns, err := st.LoadPowerUpCooldowns(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, row := range cooldowns {
		if row.CooldownEnd.After(now) {
			g.RestorePowerUpCooldown(row.UserID, game.PowerUpType(row.Type), row.CooldownEnd)
		}
	}

	log.Printf("hydrated %d pixels, %d users, %d power-up cooldowns", len(pixels), len(users), len(cooldowns))
	return nil
}
