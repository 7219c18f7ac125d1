package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"qlo-rating-service/internal/domain"
)

// RecordRepository stores immutable quiz and beef source records.
type RecordRepository struct {
	db *bun.DB
}

func NewRecordRepository(db *bun.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) AddQuiz(ctx context.Context, rec domain.QuizRecord) error {
	row := quizRecordRow{
		UserID:         rec.UserID,
		Category:       rec.Category,
		ScorePercent:   rec.ScorePercent,
		TotalQuestions: rec.TotalQuestions,
		HardCorrect:    rec.HardCorrect,
		DurationMs:     rec.DurationMs,
		CompletedAt:    rec.CompletedAt,
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz record: %w", err)
	}
	return nil
}

func (r *RecordRepository) AddBeef(ctx context.Context, rec domain.BeefRecord) error {
	row := beefRecordRow{
		UserID:            rec.UserID,
		FinishingPosition: rec.FinishingPosition,
		FinishedAt:        rec.FinishedAt,
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert beef record: %w", err)
	}
	return nil
}

func (r *RecordRepository) QuizzesByUser(ctx context.Context, userID string) ([]domain.QuizRecord, error) {
	var rows []quizRecordRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quiz records: %w", err)
	}
	out := make([]domain.QuizRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.QuizRecord{
			UserID:         row.UserID,
			Category:       row.Category,
			ScorePercent:   row.ScorePercent,
			TotalQuestions: row.TotalQuestions,
			HardCorrect:    row.HardCorrect,
			DurationMs:     row.DurationMs,
			CompletedAt:    row.CompletedAt,
		})
	}
	return out, nil
}

func (r *RecordRepository) BeefsByUser(ctx context.Context, userID string) ([]domain.BeefRecord, error) {
	var rows []beefRecordRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("finished_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list beef records: %w", err)
	}
	out := make([]domain.BeefRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BeefRecord{
			UserID:            row.UserID,
			FinishingPosition: row.FinishingPosition,
			FinishedAt:        row.FinishedAt,
		})
	}
	return out, nil
}

func (r *RecordRepository) CategoryPlays(ctx context.Context, userID, category string) (int, error) {
	if category == "" {
		return 0, nil
	}
	count, err := r.db.NewSelect().
		Model((*quizRecordRow)(nil)).
		Where("user_id = ?", userID).
		Where("category = ?", category).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count category plays: %w", err)
	}
	return count, nil
}
