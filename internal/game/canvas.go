package game

import (
	"fmt"
	"time"
)

// Canvas is the authoritative cell -> pixel mapping. It is a plain data
// structure: the owning Game serializes access, same as the grid layers in a
// tick simulation. Writes are last-write-wins per cell, no cross-cell
// atomicity.
type Canvas struct {
	width  int
	height int
	pixels map[string]*Pixel
}

func NewCanvas() *Canvas {
	return &Canvas{
		width:  GridWidth,
		height: GridHeight,
		pixels: make(map[string]*Pixel),
	}
}

func pixelKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Write unconditionally places a pixel at (x, y). Out-of-bounds writes are
// dropped. Returns the stored pixel, or nil when rejected.
func (c *Canvas) Write(x, y int, color string, team TeamID, weight int, now time.Time) *Pixel {
	if !c.InBounds(x, y) {
		return nil
	}
	p := &Pixel{
		X:           x,
		Y:           y,
		Color:       color,
		Team:        team,
		Weight:      weight,
		LastUpdated: now.UnixMilli(),
	}
	c.pixels[pixelKey(x, y)] = p
	return p
}

// Merge applies a pixel from another replica (store snapshot, reconnect
// backlog). The greater LastUpdated wins so replays are harmless.
func (c *Canvas) Merge(p Pixel) bool {
	if !c.InBounds(p.X, p.Y) {
		return false
	}
	key := pixelKey(p.X, p.Y)
	if cur, ok := c.pixels[key]; ok && cur.LastUpdated >= p.LastUpdated {
		return false
	}
	cp := p
	c.pixels[key] = &cp
	return true
}

func (c *Canvas) Read(x, y int) *Pixel {
	return c.pixels[pixelKey(x, y)]
}

// TeamCount recounts on demand. The grid tops out at 10k cells so a full
// scan is cheap enough to skip incremental bookkeeping.
func (c *Canvas) TeamCount(team TeamID) int {
	count := 0
	for _, p := range c.pixels {
		if p.Team == team {
			count++
		}
	}
	return count
}

func (c *Canvas) PixelCount() int {
	return len(c.pixels)
}

// Snapshot copies the full pixel map for broadcasting.
func (c *Canvas) Snapshot() map[string]Pixel {
	out := make(map[string]Pixel, len(c.pixels))
	for k, p := range c.pixels {
		out[k] = *p
	}
	return out
}

// Occupancy returns the grid as one team code per cell, row-major. This is
// the compact binary frame pushed to clients on register and on the
// broadcast ticker.
func (c *Canvas) Occupancy() []uint8 {
	grid := make([]uint8, c.width*c.height)
	for _, p := range c.pixels {
		if code, ok := teamCodes[p.Team]; ok {
			grid[p.Y*c.width+p.X] = code
		}
	}
	return grid
}
