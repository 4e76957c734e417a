package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkRageStreak  BookmarkType = "rage_streak"
	BookmarkScoreSurge  BookmarkType = "score_surge"
	BookmarkHazardSurge BookmarkType = "hazard_surge"
	BookmarkAllyWipe    BookmarkType = "ally_wipe"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows in a session.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// Largest ally roster since the last wipe
	allyPeak int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for rolling averages
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Rage streak: the meter filled more than once in one window
	if stats.RageBonuses >= 2 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkRageStreak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Rage threshold crossed %d times in one window", stats.RageBonuses),
		})
	}

	if b := bd.checkScoreSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkHazardSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkAllyWipe(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkScoreSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.ScoreGained
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.ScoreGained) > avg*2.0 && stats.ScoreGained >= 50 {
		return &Bookmark{
			Type:        BookmarkScoreSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Scored %d, %.1fx the average (%.1f)", stats.ScoreGained, float64(stats.ScoreGained)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHazardSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Hazards
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Hazards) > avg*2.0 && stats.Hazards >= 10 {
		return &Bookmark{
			Type:        BookmarkHazardSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d hazards on screen, %.1fx the average (%.1f)", stats.Hazards, float64(stats.Hazards)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkAllyWipe(stats WindowStats) *Bookmark {
	if stats.Allies > bd.allyPeak {
		bd.allyPeak = stats.Allies
	}
	if bd.allyPeak < 3 || stats.Allies > 0 {
		return nil
	}

	peak := bd.allyPeak
	bd.allyPeak = 0
	return &Bookmark{
		Type:        BookmarkAllyWipe,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All allies lost after a peak of %d", peak),
	}
}
