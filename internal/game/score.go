package game

// Territory scoring is a pure view over the canvas, recomputed on every
// read. Percentages use plain pixel counts; the weighted scores honor the
// event multipliers locked into each pixel at placement time.

// TeamCounts tallies pixels per team.
func TeamCounts(c *Canvas) map[TeamID]int {
	counts := make(map[TeamID]int, len(Teams))
	for _, t := range Teams {
		counts[t.ID] = 0
	}
	for _, p := range c.pixels {
		if _, ok := counts[p.Team]; ok {
			counts[p.Team]++
		}
	}
	return counts
}

// TeamPercentages is each team's share of all placed pixels, 0 across the
// board on an empty canvas.
func TeamPercentages(c *Canvas) map[TeamID]float64 {
	counts := TeamCounts(c)
	total := 0
	for _, n := range counts {
		total += n
	}
	pcts := make(map[TeamID]float64, len(counts))
	for id, n := range counts {
		if total == 0 {
			pcts[id] = 0
			continue
		}
		pcts[id] = float64(n) / float64(total) * 100
	}
	return pcts
}

// TeamScores sums the per-pixel weights (gold rush, territory wars bonuses).
func TeamScores(c *Canvas) map[TeamID]int {
	scores := make(map[TeamID]int, len(Teams))
	for _, t := range Teams {
		scores[t.ID] = 0
	}
	for _, p := range c.pixels {
		if _, ok := scores[p.Team]; ok {
			w := p.Weight
			if w <= 0 {
				w = 1
			}
			scores[p.Team] += w
		}
	}
	return scores
}
