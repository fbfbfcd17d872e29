package upgrade

import (
	"context"

	"github.com/haierkeys/chrono-journal-service/internal/model"
	"github.com/haierkeys/chrono-journal-service/pkg/mood"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MoodBackfill re-derives moods and the dominant mood from stored content
// MoodBackfill 根据已存内容重新计算情绪与主导情绪，内容无法解析的条目保持不变
type MoodBackfill struct{}

func (*MoodBackfill) Version() string { return "v1.1.0" }

func (*MoodBackfill) Description() string {
	return "recompute moods and dominant mood from entry content"
}

const backfillBatchSize = 200

func (*MoodBackfill) Up(ctx context.Context, tx *gorm.DB) error {
	var rows []*model.Entry
	var failed error
	res := tx.WithContext(ctx).
		Select("id", "content", "moods", "dominant_mood").
		FindInBatches(&rows, backfillBatchSize, func(batch *gorm.DB, _ int) error {
			for _, row := range rows {
				r, err := mood.ProcessJSON(row.Content)
				if err != nil {
					continue
				}
				data, err := sonic.Marshal(mood.Strings(r.Moods))
				if err != nil {
					return errors.Wrap(err, "encode moods")
				}
				var dominant *string
				if r.HasDominant() {
					s := r.Dominant.String()
					dominant = &s
				}
				if string(data) == row.Moods && equalPtr(dominant, row.DominantMood) {
					continue
				}
				err = tx.Model(&model.Entry{}).
					Where("id = ?", row.ID).
					UpdateColumns(map[string]any{
						"moods":         string(data),
						"dominant_mood": dominant,
					}).Error
				if err != nil {
					failed = errors.Wrapf(err, "update entry %s", row.ID)
					return failed
				}
			}
			return nil
		})
	if failed != nil {
		return failed
	}
	return res.Error
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
