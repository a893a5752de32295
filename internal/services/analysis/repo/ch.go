package repo

import (
	"context"

	"reviewpulse/internal/core/sentiment"
	"reviewpulse/internal/platform/store"

	"github.com/google/uuid"
)

// Table is the analytics table both sinks write to
const Table = "topic_analysis"

// CH appends records to ClickHouse through the store seam
type CH struct {
	Client store.Clickhouse
}

// chBatch lays records out in the ClickHouse column order
type chBatch []sentiment.Record

// CHRows implements store.RowSource
func (b chBatch) CHRows() [][]any {
	out := make([][]any, 0, len(b))
	for _, rc := range b {
		id, err := uuid.Parse(rc.ID)
		if err != nil {
			id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(rc.ID))
		}
		out = append(out, []any{
			id, rc.ReviewID, rc.TopicID, rc.ScoreSentiment, rc.LabelSentiment, rc.Score01, rc.CreatedAt.UTC(),
		})
	}
	return out
}

// InsertRecords sends one native batch
func (c CH) InsertRecords(ctx context.Context, recs []sentiment.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	if err := c.Client.Insert(ctx, Table, chBatch(recs)); err != nil {
		return 0, err
	}
	return int64(len(recs)), nil
}

var _ store.RowSource = chBatch(nil)
