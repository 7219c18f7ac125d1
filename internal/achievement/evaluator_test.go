package achievement

import (
	"testing"

	"qlo-rating-service/internal/domain"
)

func def(key string, c domain.Criteria) domain.AchievementDefinition {
	return domain.AchievementDefinition{Key: key, Criteria: c, IsActive: true}
}

func keys(defs []domain.AchievementDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Key)
	}
	return out
}

func TestCountCriteria(t *testing.T) {
	defs := []domain.AchievementDefinition{
		def("quiz_10", domain.Criteria{Type: domain.CriteriaQuizCount, Target: 10}),
		def("perfect_1", domain.Criteria{Type: domain.CriteriaPerfectScore, Target: 1}),
		def("beef_5", domain.Criteria{Type: domain.CriteriaBeefWins, Target: 5}),
		def("docs_10", domain.Criteria{Type: domain.CriteriaDocumentCount, Target: 10}),
		def("folders_5", domain.Criteria{Type: domain.CriteriaFolderCount, Target: 5}),
		def("streak_7", domain.Criteria{Type: domain.CriteriaDailyStreak, Target: 7}),
		def("hard_50", domain.Criteria{Type: domain.CriteriaHardCorrect, Target: 50}),
	}
	stats := domain.StatsSnapshot{
		QuizCount:       10,
		PerfectScores:   0,
		BeefWins:        5,
		DocumentCount:   3,
		FolderCount:     5,
		DailyStreakDays: 6,
		HardCorrect:     51,
	}

	got := keys(Evaluate(defs, stats, Trigger{Type: TriggerQuizCompleted}, nil))
	want := []string{"quiz_10", "beef_5", "folders_5", "hard_50"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestQuizTimeRequiresQuizTrigger(t *testing.T) {
	defs := []domain.AchievementDefinition{
		def("speedrun_60", domain.Criteria{Type: domain.CriteriaQuizTime, Target: 60}),
	}
	stats := domain.StatsSnapshot{}

	fast := Trigger{Type: TriggerQuizCompleted, TimeSpentMs: 59999}
	if got := Evaluate(defs, stats, fast, nil); len(got) != 1 {
		t.Fatalf("expected sub-minute quiz to qualify, got %v", keys(got))
	}

	slow := Trigger{Type: TriggerQuizCompleted, TimeSpentMs: 60000}
	if got := Evaluate(defs, stats, slow, nil); len(got) != 0 {
		t.Fatalf("expected exactly-60s quiz not to qualify (strict less-than), got %v", keys(got))
	}

	beef := Trigger{Type: TriggerBeefFinalized, TimeSpentMs: 1000}
	if got := Evaluate(defs, stats, beef, nil); len(got) != 0 {
		t.Fatalf("expected non-quiz trigger not to qualify, got %v", keys(got))
	}
}

func TestEarlyAdopterCohort(t *testing.T) {
	defs := []domain.AchievementDefinition{
		def("early", domain.Criteria{Type: domain.CriteriaUserID, Target: 1000}),
	}

	if got := Evaluate(defs, domain.StatsSnapshot{Seq: 1000}, Trigger{Type: TriggerQuizCompleted}, nil); len(got) != 1 {
		t.Fatalf("expected seq 1000 to qualify, got %v", keys(got))
	}
	if got := Evaluate(defs, domain.StatsSnapshot{Seq: 1001}, Trigger{Type: TriggerQuizCompleted}, nil); len(got) != 0 {
		t.Fatalf("expected seq 1001 not to qualify, got %v", keys(got))
	}
	if got := Evaluate(defs, domain.StatsSnapshot{}, Trigger{Type: TriggerQuizCompleted}, nil); len(got) != 0 {
		t.Fatalf("expected missing seq not to qualify, got %v", keys(got))
	}
}

func TestUnknownCriteriaFailClosed(t *testing.T) {
	defs := []domain.AchievementDefinition{
		def("mystery", domain.Criteria{Type: "LUNAR_PHASE", Target: 1}),
	}
	if got := Evaluate(defs, domain.StatsSnapshot{QuizCount: 999}, Trigger{Type: TriggerQuizCompleted}, nil); len(got) != 0 {
		t.Fatalf("unrecognized criteria must never qualify, got %v", keys(got))
	}
}

func TestInactiveAndGrantedExcluded(t *testing.T) {
	inactive := def("retired", domain.Criteria{Type: domain.CriteriaQuizCount, Target: 1})
	inactive.IsActive = false
	defs := []domain.AchievementDefinition{
		inactive,
		def("quiz_1", domain.Criteria{Type: domain.CriteriaQuizCount, Target: 1}),
	}
	stats := domain.StatsSnapshot{QuizCount: 5}

	got := keys(Evaluate(defs, stats, Trigger{Type: TriggerQuizCompleted}, map[string]bool{"quiz_1": true}))
	if len(got) != 0 {
		t.Fatalf("expected inactive and already-granted definitions excluded, got %v", got)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	defs := DefaultCatalog()
	stats := domain.StatsSnapshot{
		Seq: 12, QuizCount: 10, PerfectScores: 1, BeefWins: 1,
		DocumentCount: 10, FolderCount: 5, DailyStreakDays: 7, HardCorrect: 50,
	}
	trig := Trigger{Type: TriggerQuizCompleted, TimeSpentMs: 30000}

	first := keys(Evaluate(defs, stats, trig, nil))
	for i := 0; i < 10; i++ {
		again := keys(Evaluate(defs, stats, trig, nil))
		if len(again) != len(first) {
			t.Fatalf("non-deterministic result: %v vs %v", first, again)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("non-deterministic result: %v vs %v", first, again)
			}
		}
	}
	if len(first) == 0 {
		t.Fatalf("expected some qualifying achievements for a loaded snapshot")
	}
}

func TestExplicitOperatorOverride(t *testing.T) {
	defs := []domain.AchievementDefinition{
		def("under_3_quizzes", domain.Criteria{Type: domain.CriteriaQuizCount, Target: 3, Operator: domain.OpLessThan}),
	}
	if got := Evaluate(defs, domain.StatsSnapshot{QuizCount: 2}, Trigger{Type: TriggerQuizCompleted}, nil); len(got) != 1 {
		t.Fatalf("expected explicit less-than operator to apply, got %v", keys(got))
	}
	if got := Evaluate(defs, domain.StatsSnapshot{QuizCount: 3}, Trigger{Type: TriggerQuizCompleted}, nil); len(got) != 0 {
		t.Fatalf("expected 3 quizzes to fail less-than 3, got %v", keys(got))
	}
}
