package search

import "time"

// LevelStats describes one generated budget.
type LevelStats struct {
	Budget         int
	LevelSize      int
	AggregatedSize int
	Duration       time.Duration
}

// TotalDuration sums the build time of all levels.
func TotalDuration(levels []LevelStats) time.Duration {
	var d time.Duration
	for _, l := range levels {
		d += l.Duration
	}
	return d
}
