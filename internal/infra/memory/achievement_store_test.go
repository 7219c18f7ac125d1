package memory

import (
	"context"
	"testing"
	"time"

	"qlo-rating-service/internal/achievement"
	"qlo-rating-service/internal/domain"
)

func TestGrantIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewAchievementStore(achievement.DefaultCatalog())

	grant := domain.UserAchievementGrant{
		ID:             "g1",
		UserID:         "u1",
		AchievementKey: "first_quiz",
		UnlockedAt:     time.Now(),
	}

	first, err := store.Grant(ctx, grant)
	if err != nil {
		t.Fatalf("first grant failed: %v", err)
	}
	if !first.Success || first.AlreadyUnlocked {
		t.Fatalf("expected fresh unlock, got %+v", first)
	}

	grant.ID = "g2"
	second, err := store.Grant(ctx, grant)
	if err != nil {
		t.Fatalf("repeat grant errored: %v", err)
	}
	if !second.Success || !second.AlreadyUnlocked {
		t.Fatalf("expected {success, alreadyUnlocked}, got %+v", second)
	}

	grants, err := store.GrantsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list grants: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected exactly one grant row, got %d", len(grants))
	}
	if grants[0].ID != "g1" {
		t.Fatalf("expected the original grant row to survive, got %+v", grants[0])
	}
}

func TestGrantUnknownAchievement(t *testing.T) {
	store := NewAchievementStore(achievement.DefaultCatalog())
	_, err := store.Grant(context.Background(), domain.UserAchievementGrant{
		UserID:         "u1",
		AchievementKey: "no_such_key",
	})
	if err != domain.ErrAchievementNotFound {
		t.Fatalf("expected achievement-not-found, got %v", err)
	}
}

func TestActiveDefinitionsFiltersInactive(t *testing.T) {
	catalog := []domain.AchievementDefinition{
		{Key: "live", IsActive: true},
		{Key: "retired", IsActive: false},
	}
	store := NewAchievementStore(catalog)
	active, err := store.ActiveDefinitions(context.Background())
	if err != nil {
		t.Fatalf("active definitions: %v", err)
	}
	if len(active) != 1 || active[0].Key != "live" {
		t.Fatalf("expected only the live definition, got %+v", active)
	}
}
