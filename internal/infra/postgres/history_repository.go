package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"qlo-rating-service/internal/domain"
)

// HistoryRepository appends to the qlo_history audit table. Rows are never
// updated or deleted.
type HistoryRepository struct {
	db *bun.DB
}

func NewHistoryRepository(db *bun.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry domain.QLOHistoryEntry) error {
	row := historyRow{
		UserID:    entry.UserID,
		QLO:       entry.QLO,
		ChangedAt: entry.ChangedAt,
		Source:    string(entry.Source),
		Note:      entry.Note,
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("append qlo history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.QLOHistoryEntry, error) {
	var rows []historyRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("changed_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list qlo history: %w", err)
	}
	out := make([]domain.QLOHistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.QLOHistoryEntry{
			UserID:    row.UserID,
			QLO:       row.QLO,
			ChangedAt: row.ChangedAt,
			Source:    domain.RatingSource(row.Source),
			Note:      row.Note,
		})
	}
	return out, nil
}
