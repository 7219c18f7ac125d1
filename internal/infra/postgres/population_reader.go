package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/leaderboard"
)

// PopulationReader loads the ranked population straight from Postgres. It is
// the uncached read path; wrap it with the Redis leaderboard cache in
// production deployments.
type PopulationReader struct {
	pool *pgxpool.Pool
}

func NewPopulationReader(pool *pgxpool.Pool) *PopulationReader {
	return &PopulationReader{pool: pool}
}

var metricColumns = map[domain.Metric]string{
	domain.MetricQLO:        "qlo",
	domain.MetricTotalScore: "total_score",
	domain.MetricBeefWins:   "total_beef_wins",
}

func (r *PopulationReader) Ranked(ctx context.Context, metric domain.Metric, filter domain.LeaderboardFilter) ([]domain.RankedEntry, error) {
	col, ok := metricColumns[metric]
	if !ok {
		return nil, domain.ErrUnknownMetric
	}

	if filter.GroupID != "" {
		var exists bool
		err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1)`,
			filter.GroupID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check group: %w", err)
		}
		if !exists {
			return nil, domain.ErrGroupNotFound
		}
	}

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT u.user_id, u.display_name, u.` + col + ` FROM user_rating_states u`)
	if filter.GroupID != "" {
		args = append(args, filter.GroupID)
		sb.WriteString(fmt.Sprintf(` JOIN group_members gm ON gm.user_id = u.user_id AND gm.group_id = $%d`, len(args)))
	}
	var conds []string
	if filter.Country != "" {
		args = append(args, filter.Country)
		conds = append(conds, fmt.Sprintf("u.country = $%d", len(args)))
	}
	if filter.County != "" {
		args = append(args, filter.County)
		conds = append(conds, fmt.Sprintf("u.county = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conds = append(conds, fmt.Sprintf("u.city = $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(` ORDER BY u.` + col + ` DESC, u.user_id ASC`)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("load population: %w", err)
	}
	defer rows.Close()

	var entries []domain.RankedEntry
	for rows.Next() {
		var entry domain.RankedEntry
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.MetricValue); err != nil {
			return nil, fmt.Errorf("scan population row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read population: %w", err)
	}
	return leaderboard.Rank(entries), nil
}
