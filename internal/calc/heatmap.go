package calc

import (
	"math"
	"time"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

const maxLevel = 4

// Heatmap returns one entry per day of year with the number of commits made that day.
func (c *Calculator) Heatmap(year int, commits []domain.Commit) []domain.HeatmapDay {
	counts := make(map[string]int, len(commits))
	for _, cm := range commits {
		counts[c.dateKey(cm.AuthoredAt)]++
	}
	return HeatmapFromCounts(year, counts)
}

// HeatmapFromCounts builds the heatmap of year from per-day counts keyed by
// YYYY-MM-DD. Keys outside year are ignored.
func HeatmapFromCounts(year int, counts map[string]int) []domain.HeatmapDay {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	days := make([]domain.HeatmapDay, 0, 366)
	maxCount := 1
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		n := counts[key]
		if n > maxCount {
			maxCount = n
		}
		days = append(days, domain.HeatmapDay{Date: key, Count: n})
	}

	for i := range days {
		days[i].Level = HeatmapLevel(days[i].Count, maxCount)
	}
	return days
}

// HeatmapLevel maps a day count to an intensity from 0 to 4 relative to the busiest day.
func HeatmapLevel(count, maxCount int) int {
	if count <= 0 {
		return 0
	}
	if maxCount < 1 {
		maxCount = 1
	}
	level := int(math.Ceil(float64(count) / float64(maxCount) * maxLevel))
	return min(level, maxLevel)
}

// HourlyDistribution counts commits per hour of the day. It always has 24 entries.
func (c *Calculator) HourlyDistribution(commits []domain.Commit) []domain.HourCount {
	out := make([]domain.HourCount, 24)
	for h := range out {
		out[h].Hour = h
	}
	for _, cm := range commits {
		out[c.local(cm.AuthoredAt).Hour()].Count++
	}
	return out
}

// WeeklyDistribution counts commits per day of the week, Sunday first. It always has 7 entries.
func (c *Calculator) WeeklyDistribution(commits []domain.Commit) []domain.WeekdayCount {
	out := make([]domain.WeekdayCount, 7)
	for d := range out {
		out[d].DayOfWeek = d
	}
	for _, cm := range commits {
		out[int(c.local(cm.AuthoredAt).Weekday())].Count++
	}
	return out
}
