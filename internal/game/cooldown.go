package game

import "time"

// EffectiveCooldown is the placement cooldown in force right now. Pixel storm
// halves it, floored at the millisecond like the classic rules.
func EffectiveCooldown(base time.Duration, events *EventScheduler) time.Duration {
	if base <= 0 {
		base = PixelPlacementCooldown
	}
	if events != nil && events.IsActive(EventPixelStorm) {
		ms := base.Milliseconds() / 2
		return time.Duration(ms) * time.Millisecond
	}
	return base
}

// CooldownRemaining says how long the user must still wait. A user who never
// placed owes nothing.
func CooldownRemaining(u *User, events *EventScheduler, now time.Time) time.Duration {
	if u == nil || u.LastPlacement.IsZero() {
		return 0
	}
	effective := EffectiveCooldown(u.BaseCooldown, events)
	elapsed := now.Sub(u.LastPlacement)
	if elapsed >= effective {
		return 0
	}
	return effective - elapsed
}

// CanPlace requires a team and an elapsed cooldown. Shield conflicts are
// checked separately against the target cell.
func CanPlace(u *User, events *EventScheduler, now time.Time) bool {
	return u != nil && u.Team != "" && CooldownRemaining(u, events, now) == 0
}
