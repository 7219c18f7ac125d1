package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"qlo-rating-service/internal/domain"
)

// RatingRepository stores rating state in Postgres via bun. The seq column is
// a bigserial, so sequential account numbers come from the database.
type RatingRepository struct {
	db *bun.DB
}

func NewRatingRepository(db *bun.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Get(ctx context.Context, userID string) (domain.UserRatingState, error) {
	var row userRatingRow
	err := r.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserRatingState{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserRatingState{}, fmt.Errorf("load rating state: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RatingRepository) Create(ctx context.Context, state domain.UserRatingState) (domain.UserRatingState, error) {
	row := ratingRowFromDomain(state)
	_, err := r.db.NewInsert().
		Model(&row).
		ExcludeColumn("seq").
		Returning("*").
		Exec(ctx)
	if err != nil {
		exists, existsErr := r.db.NewSelect().
			Model((*userRatingRow)(nil)).
			Where("user_id = ?", state.UserID).
			Exists(ctx)
		if existsErr == nil && exists {
			return domain.UserRatingState{}, domain.ErrUserExists
		}
		return domain.UserRatingState{}, fmt.Errorf("create rating state: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RatingRepository) Save(ctx context.Context, state domain.UserRatingState) error {
	row := ratingRowFromDomain(state)
	res, err := r.db.NewUpdate().
		Model(&row).
		ExcludeColumn("seq", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save rating state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AddGroupMember registers a user in a leaderboard group.
func (r *RatingRepository) AddGroupMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.NewInsert().
		Model(&groupMemberRow{GroupID: groupID, UserID: userID}).
		On("CONFLICT (group_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

type groupMemberRow struct {
	bun.BaseModel `bun:"table:group_members,alias:gm"`

	GroupID string `bun:"group_id,pk"`
	UserID  string `bun:"user_id,pk"`
}
