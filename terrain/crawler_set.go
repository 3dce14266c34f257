package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// DefaultCrawlSpeed is the step length used when carving body surfaces
const DefaultCrawlSpeed = 0.001

// CrawlerSet keeps crawlers placed by a seeded stage until a body surface is carved
type CrawlerSet struct {
	crawlers []*Crawler
}

// Add appends a new crawler
func (cs *CrawlerSet) Add(pos, dir mgl32.Vec3, power, radius float32, count, lifetime uint32, divergence float32) {
	cs.crawlers = append(cs.crawlers, NewCrawler(pos, dir, power, radius, count, lifetime, divergence))
}

// Len returns the number of crawlers
func (cs *CrawlerSet) Len() int {
	return len(cs.crawlers)
}

// Carve runs every crawler to completion in insertion order.
// Crawlers are spent afterwards; carving again does nothing.
func (cs *CrawlerSet) Carve(s Surface, mode CarveMode, speed float32, rng *core.Random) {
	for _, c := range cs.crawlers {
		c.Carve(s, mode, speed, rng)
	}
}
