package service

import (
	"github.com/haierkeys/chrono-journal-service/internal/domain"
	"github.com/haierkeys/chrono-journal-service/pkg/mood"
)

// BuildHeatmap groups entries already sorted by date ascending into one point
// per date. Moods is the first-occurrence union of the entries' moods; the
// dominant mood is taken over the entries' own dominant moods. Dates without
// entries produce no point.
// BuildHeatmap 将按日期升序的条目聚合为每日数据点，无条目的日期不输出
func BuildHeatmap(entries []*domain.Entry) []domain.HeatmapPoint {
	points := make([]domain.HeatmapPoint, 0)
	if len(entries) == 0 {
		return points
	}

	var (
		cur       *domain.HeatmapPoint
		seen      map[mood.Mood]struct{}
		dominants []mood.Mood
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.DominantMood, _ = mood.DominantMood(dominants)
		points = append(points, *cur)
	}

	for _, e := range entries {
		if cur == nil || !cur.Date.Equal(e.Date) {
			flush()
			cur = &domain.HeatmapPoint{Date: e.Date, Moods: []mood.Mood{}}
			seen = make(map[mood.Mood]struct{})
			dominants = dominants[:0]
		}
		cur.EntryCount++
		if e.Notable {
			cur.HasNotable = true
		}
		for _, m := range e.Moods {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			cur.Moods = append(cur.Moods, m)
		}
		if e.HasDominantMood() {
			dominants = append(dominants, e.DominantMood)
		}
	}
	flush()

	return points
}

// CountDominantMoods tallies the dominant moods of entries, every mood present
// CountDominantMoods 统计条目主导情绪，所有情绪均有键
func CountDominantMoods(entries []*domain.Entry) map[mood.Mood]int {
	counts := make(map[mood.Mood]int, len(mood.All()))
	for _, m := range mood.All() {
		counts[m] = 0
	}
	for _, e := range entries {
		if e.HasDominantMood() {
			counts[e.DominantMood]++
		}
	}
	return counts
}
