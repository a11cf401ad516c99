package analyses

import "context"

// Repo defines persistence operations for analyses. The table is
// append-only: no updates, no deletes.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, id string) (Analysis, error)
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
