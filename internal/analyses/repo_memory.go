package analyses

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use. It is
// the dev/test stand-in when no database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Analysis)}
}

// Create stores the analysis, assigning created_at at write time.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[analysis.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, analysis.ID)
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	r.byID[analysis.ID] = analysis
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[id]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// History returns up to limit entries ordered by descending creation time.
func (r *MemoryRepo) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Analysis, 0, len(r.byID))
	for _, a := range r.byID {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	limit = clampHistoryLimit(limit)
	if len(all) > limit {
		all = all[:limit]
	}

	out := make([]HistoryEntry, 0, len(all))
	for _, a := range all {
		out = append(out, HistoryEntry{
			ID:        a.ID,
			URL:       a.URL,
			Domain:    a.Domain,
			RiskScore: a.RiskScore,
			CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
