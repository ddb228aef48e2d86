package calc

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// TimePatterns computes when the commits were made.
func (c *Calculator) TimePatterns(commits []domain.Commit) domain.TimeStats {
	if len(commits) == 0 {
		return domain.TimeStats{}
	}

	hours := c.HourlyDistribution(commits)
	mostActiveHour := 0
	for _, h := range hours {
		if h.Count > hours[mostActiveHour].Count {
			mostActiveHour = h.Hour
		}
	}

	days := c.WeeklyDistribution(commits)
	mostActiveDay := 0
	for _, d := range days {
		if d.Count > days[mostActiveDay].Count {
			mostActiveDay = d.DayOfWeek
		}
	}

	return domain.TimeStats{
		MostActiveHour:            mostActiveHour,
		MostActiveDayOfWeek:       mostActiveDay,
		LongestStreak:             c.LongestStreak(commits),
		AverageTimeBetweenCommits: averageGapHours(commits),
	}
}

// LongestStreak returns the length of the longest run of consecutive active days.
func (c *Calculator) LongestStreak(commits []domain.Commit) int {
	seen := make(map[string]struct{}, len(commits))
	dates := make([]time.Time, 0, len(commits))
	for _, cm := range commits {
		key := c.dateKey(cm.AuthoredAt)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		// Day arithmetic is done on UTC midnights so DST shifts never change a difference.
		d, _ := time.Parse(dateLayout, key)
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, current := 0, 0
	for i, d := range dates {
		if i > 0 && daysBetween(dates[i-1], d) == 1 {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

// averageGapHours is the mean time between chronologically consecutive commits.
func averageGapHours(commits []domain.Commit) float64 {
	if len(commits) < 2 {
		return 0
	}
	instants := make([]time.Time, len(commits))
	for i, cm := range commits {
		instants[i] = cm.AuthoredAt
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	gaps := make([]float64, 0, len(instants)-1)
	for i := 1; i < len(instants); i++ {
		gaps = append(gaps, instants[i].Sub(instants[i-1]).Hours())
	}
	mean, err := stats.Mean(gaps)
	if err != nil {
		return 0
	}
	return mean
}
