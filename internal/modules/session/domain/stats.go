package domain

import "sort"

// Stats is the aggregate shown by status and log.
type Stats struct {
	TotalCount   int
	TotalHours   int
	TotalMinutes int
	TodayCount   int
	TodayHours   int
	TodayMinutes int
}

// Tier classifies today's session count for presentation.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Aggregate counts records overall and for the given local date. Every
// session counts as SessionMinutes.
func Aggregate(records []Session, today string) Stats {
	todayCount := 0
	for _, s := range records {
		if s.Date == today {
			todayCount++
		}
	}
	totalHours, totalMinutes := Duration(len(records))
	todayHours, todayMinutes := Duration(todayCount)
	return Stats{
		TotalCount:   len(records),
		TotalHours:   totalHours,
		TotalMinutes: totalMinutes,
		TodayCount:   todayCount,
		TodayHours:   todayHours,
		TodayMinutes: todayMinutes,
	}
}

// Duration splits count sessions into whole hours and remaining minutes.
func Duration(count int) (hours, minutes int) {
	raw := count * SessionMinutes
	return raw / 60, raw % 60
}

// Tier returns the presentation band of TodayCount.
func (s Stats) Tier() Tier {
	return TierFor(s.TodayCount)
}

func TierFor(todayCount int) Tier {
	switch {
	case todayCount <= 2:
		return TierLow
	case todayCount <= 7:
		return TierMedium
	default:
		return TierHigh
	}
}

// LabelCount is one row of the per-label breakdown.
type LabelCount struct {
	Label      string
	Count      int
	TodayCount int
}

// CountLabels tallies sessions per label, ordered by descending count and
// then by label. A session listing a label twice counts once for it.
func CountLabels(records []Session, today string) []LabelCount {
	index := map[string]int{}
	var out []LabelCount
	for _, s := range records {
		seen := map[string]bool{}
		for _, label := range s.Labels {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			pos, ok := index[label]
			if !ok {
				pos = len(out)
				index[label] = pos
				out = append(out, LabelCount{Label: label})
			}
			out[pos].Count++
			if s.Date == today {
				out[pos].TodayCount++
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
