package game

import "time"

// DefaultAchievements is the ladder every new user starts with.
func DefaultAchievements() []*Achievement {
	return []*Achievement{
		{ID: "pixel-10", Type: AchievementPixelMilestone, Title: "Pixel Beginner",
			Description: "Place 10 pixels on the canvas", MaxProgress: 10, Reward: "Unlock basic colors"},
		{ID: "pixel-50", Type: AchievementPixelMilestone, Title: "Pixel Enthusiast",
			Description: "Place 50 pixels on the canvas", MaxProgress: 50, Reward: "Reduced cooldown time (9s)"},
		{ID: "pixel-100", Type: AchievementPixelMilestone, Title: "Pixel Master",
			Description: "Place 100 pixels on the canvas", MaxProgress: 100, Reward: "Color Bomb unlocked"},
		{ID: "territory-10", Type: AchievementTerritoryControl, Title: "Territory Claimer",
			Description: "Help your team control 10% of the canvas", MaxProgress: 10, Reward: "Team color boost"},
		{ID: "territory-25", Type: AchievementTerritoryControl, Title: "Territory Dominator",
			Description: "Help your team control 25% of the canvas", MaxProgress: 25, Reward: "Territory Shield unlocked"},
		{ID: "pattern-square", Type: AchievementPatternBuilder, Title: "Square Builder",
			Description: "Create a 3x3 square of the same color", MaxProgress: 1, Reward: "Pattern recognition badge"},
		{ID: "pattern-line", Type: AchievementPatternBuilder, Title: "Line Artist",
			Description: "Create a straight line of 5 pixels", MaxProgress: 1, Reward: "Line drawing tool"},
	}
}

// updateAchievements refreshes a user's ladder after a placement at (x, y)
// and returns any achievements completed by it. Progress is monotonic and
// completion is one-way. Purely derived reporting: nothing here can veto a
// write.
func updateAchievements(u *User, c *Canvas, x, y int, teamPct float64, now time.Time) []*Achievement {
	var completed []*Achievement
	for _, a := range u.Achievements {
		if a.Completed {
			continue
		}
		progress := a.Progress
		switch a.Type {
		case AchievementPixelMilestone:
			progress = u.PixelsPlaced
		case AchievementTerritoryControl:
			progress = int(teamPct)
		case AchievementPatternBuilder:
			switch a.ID {
			case "pattern-square":
				if hasSquareAt(c, x, y, 3) {
					progress = 1
				}
			case "pattern-line":
				if hasLineAt(c, x, y, 5) {
					progress = 1
				}
			}
		}
		if progress > a.MaxProgress {
			progress = a.MaxProgress
		}
		if progress > a.Progress {
			a.Progress = progress
		}
		if a.Progress >= a.MaxProgress {
			a.Completed = true
			a.Date = now.UnixMilli()
			completed = append(completed, a)
		}
	}
	return completed
}

// hasSquareAt checks every size x size window containing (x, y) for a solid
// block of the cell's color. Only the neighbourhood of the placed pixel can
// change, so the scan stays local.
func hasSquareAt(c *Canvas, x, y, size int) bool {
	anchor := c.Read(x, y)
	if anchor == nil {
		return false
	}
	for ox := x - size + 1; ox <= x; ox++ {
		for oy := y - size + 1; oy <= y; oy++ {
			solid := true
			for dx := 0; dx < size && solid; dx++ {
				for dy := 0; dy < size; dy++ {
					p := c.Read(ox+dx, oy+dy)
					if p == nil || p.Color != anchor.Color {
						solid = false
						break
					}
				}
			}
			if solid {
				return true
			}
		}
	}
	return false
}

// hasLineAt checks for a horizontal or vertical run of length same-color
// pixels through (x, y).
func hasLineAt(c *Canvas, x, y, length int) bool {
	anchor := c.Read(x, y)
	if anchor == nil {
		return false
	}
	run := func(dx, dy int) int {
		n := 1
		for i := 1; ; i++ {
			p := c.Read(x+dx*i, y+dy*i)
			if p == nil || p.Color != anchor.Color {
				break
			}
			n++
		}
		for i := 1; ; i++ {
			p := c.Read(x-dx*i, y-dy*i)
			if p == nil || p.Color != anchor.Color {
				break
			}
			n++
		}
		return n
	}
	return run(1, 0) >= length || run(0, 1) >= length
}
