package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"qlo-rating-service/internal/domain"
)

// AchievementRepository serves the definition catalog and grant log. The
// unique (user_id, achievement_key) constraint makes granting idempotent.
type AchievementRepository struct {
	db *bun.DB
}

func NewAchievementRepository(db *bun.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) Definitions(ctx context.Context) ([]domain.AchievementDefinition, error) {
	var rows []definitionRow
	if err := r.db.NewSelect().Model(&rows).Order("key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	return definitionsToDomain(rows), nil
}

func (r *AchievementRepository) ActiveDefinitions(ctx context.Context) ([]domain.AchievementDefinition, error) {
	var rows []definitionRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("is_active").
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active definitions: %w", err)
	}
	return definitionsToDomain(rows), nil
}

func (r *AchievementRepository) GrantedKeys(ctx context.Context, userID string) (map[string]bool, error) {
	var keys []string
	err := r.db.NewSelect().
		Model((*grantRow)(nil)).
		Column("achievement_key").
		Where("user_id = ?", userID).
		Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("list granted keys: %w", err)
	}
	out := make(map[string]bool, len(keys))
	for _, key := range keys {
		out[key] = true
	}
	return out, nil
}

func (r *AchievementRepository) Grant(ctx context.Context, grant domain.UserAchievementGrant) (domain.GrantResult, error) {
	known, err := r.db.NewSelect().
		Model((*definitionRow)(nil)).
		Where("key = ?", grant.AchievementKey).
		Exists(ctx)
	if err != nil {
		return domain.GrantResult{}, fmt.Errorf("check definition: %w", err)
	}
	if !known {
		return domain.GrantResult{}, domain.ErrAchievementNotFound
	}

	row := grantRow{
		ID:             grant.ID,
		UserID:         grant.UserID,
		AchievementKey: grant.AchievementKey,
		UnlockedAt:     grant.UnlockedAt,
		UnlockData:     grant.UnlockData,
	}
	res, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id, achievement_key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return domain.GrantResult{}, fmt.Errorf("insert grant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.GrantResult{}, fmt.Errorf("insert grant: %w", err)
	}
	if affected == 0 {
		return domain.GrantResult{Success: true, AlreadyUnlocked: true}, nil
	}
	return domain.GrantResult{Success: true}, nil
}

func (r *AchievementRepository) GrantsByUser(ctx context.Context, userID string) ([]domain.UserAchievementGrant, error) {
	var rows []grantRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	out := make([]domain.UserAchievementGrant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SeedDefinitions upserts the catalog; existing keys are left untouched so
// re-seeding is safe.
func (r *AchievementRepository) SeedDefinitions(ctx context.Context, defs []domain.AchievementDefinition) error {
	if len(defs) == 0 {
		return nil
	}
	rows := make([]definitionRow, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, definitionRowFromDomain(d))
	}
	_, err := r.db.NewInsert().
		Model(&rows).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed definitions: %w", err)
	}
	return nil
}

func definitionsToDomain(rows []definitionRow) []domain.AchievementDefinition {
	out := make([]domain.AchievementDefinition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
