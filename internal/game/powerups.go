package game

import "time"

// PowerUpEngine tracks spent power-ups and their re-use cooldowns. It is
// owned by the Game lock, same as the canvas. Expired power-ups are pruned
// lazily whenever the active set is read; cooldowns outlive the effect and
// are tracked per user per type.
type PowerUpEngine struct {
	active    []PowerUp
	cooldowns map[string]map[PowerUpType]time.Time // userID -> type -> cooldownEnd
}

func NewPowerUpEngine() *PowerUpEngine {
	return &PowerUpEngine{
		cooldowns: make(map[string]map[PowerUpType]time.Time),
	}
}

// prune drops power-ups whose effect lapsed. Cooldown entries stay.
func (e *PowerUpEngine) prune(now time.Time) {
	kept := e.active[:0]
	for _, p := range e.active {
		if p.EndTime.After(now) {
			kept = append(kept, p)
		}
	}
	e.active = kept
}

// CooldownRemaining for one user and one power-up type.
func (e *PowerUpEngine) CooldownRemaining(userID string, typ PowerUpType, now time.Time) time.Duration {
	byType, ok := e.cooldowns[userID]
	if !ok {
		return 0
	}
	end, ok := byType[typ]
	if !ok || !end.After(now) {
		return 0
	}
	return end.Sub(now)
}

// CanUse requires a team and an elapsed cooldown, mirroring pixel placement.
func (e *PowerUpEngine) CanUse(u *User, typ PowerUpType, now time.Time) bool {
	return u != nil && u.Team != "" && e.CooldownRemaining(u.ID, typ, now) == 0
}

// register records a use and arms its cooldown.
func (e *PowerUpEngine) register(p PowerUp) {
	e.active = append(e.active, p)
	byType, ok := e.cooldowns[p.UserID]
	if !ok {
		byType = make(map[PowerUpType]time.Time)
		e.cooldowns[p.UserID] = byType
	}
	byType[p.Type] = p.CooldownEnd
}

// RestoreCooldown rehydrates a persisted cooldown at startup.
func (e *PowerUpEngine) RestoreCooldown(userID string, typ PowerUpType, end time.Time) {
	byType, ok := e.cooldowns[userID]
	if !ok {
		byType = make(map[PowerUpType]time.Time)
		e.cooldowns[userID] = byType
	}
	byType[typ] = end
}

// ShieldConflict reports whether (x, y) sits inside a live shield owned by a
// different team. Same-team shields never block.
func (e *PowerUpEngine) ShieldConflict(x, y int, team TeamID, now time.Time) bool {
	for _, p := range e.active {
		if p.Type != PowerUpTerritoryShield {
			continue
		}
		if !p.EndTime.After(now) {
			continue // lapsed, pruned on next Active read
		}
		if p.Team != team && p.Area.Contains(x, y) {
			return true
		}
	}
	return false
}

// Active returns the non-expired power-ups.
func (e *PowerUpEngine) Active(now time.Time) []PowerUp {
	e.prune(now)
	out := make([]PowerUp, len(e.active))
	copy(out, e.active)
	return out
}
