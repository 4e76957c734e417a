package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ScoreSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 300, ScoreGained: 20})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500, ScoreGained: 90})
	if !hasBookmark(bookmarks, BookmarkScoreSurge) {
		t.Error("expected score_surge bookmark")
	}
}

func TestBookmarkDetector_ScoreSurgeNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{ScoreGained: 10})

	if hasBookmark(bd.Check(WindowStats{ScoreGained: 500}), BookmarkScoreSurge) {
		t.Error("score_surge should need at least three windows of history")
	}
}

func TestBookmarkDetector_RageStreak(t *testing.T) {
	tests := []struct {
		name    string
		bonuses int
		want    bool
	}{
		{"none", 0, false},
		{"single", 1, false},
		{"streak", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := NewBookmarkDetector(5)
			got := hasBookmark(bd.Check(WindowStats{RageBonuses: tt.bonuses}), BookmarkRageStreak)
			if got != tt.want {
				t.Errorf("rage_streak = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookmarkDetector_HazardSurge(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{Hazards: 4})
	}
	if !hasBookmark(bd.Check(WindowStats{Hazards: 12}), BookmarkHazardSurge) {
		t.Error("expected hazard_surge bookmark")
	}
}

func TestBookmarkDetector_AllyWipe(t *testing.T) {
	bd := NewBookmarkDetector(5)

	bd.Check(WindowStats{Allies: 2})
	bd.Check(WindowStats{Allies: 4})
	bd.Check(WindowStats{Allies: 1})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, Allies: 0})
	if !hasBookmark(bookmarks, BookmarkAllyWipe) {
		t.Fatal("expected ally_wipe bookmark")
	}

	// Wipe fires once until the roster is rebuilt.
	if hasBookmark(bd.Check(WindowStats{Allies: 0}), BookmarkAllyWipe) {
		t.Error("ally_wipe should not repeat while the roster stays empty")
	}
}

func TestBookmarkDetector_SmallRosterNoWipe(t *testing.T) {
	bd := NewBookmarkDetector(5)
	bd.Check(WindowStats{Allies: 2})
	if hasBookmark(bd.Check(WindowStats{Allies: 0}), BookmarkAllyWipe) {
		t.Error("losing two allies should not count as a wipe")
	}
}
