package batch

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/officerage/game"
	"github.com/pthm-cable/officerage/systems"
	"github.com/pthm-cable/officerage/telemetry"
)

// Summary aggregates a set of outcomes.
type Summary struct {
	Sessions   int
	Reasons    map[string]int // termination reason -> count, "" for capped sessions
	WinRate    float64        // share ending unionized or as the boss
	FiredRate  float64
	Ticks      telemetry.Distribution
	Score      telemetry.Distribution
	BossHealth telemetry.Distribution
	MeanAllies float64

	// Correlation between session length and final score.
	TickScoreCorr float64
}

// Summarize computes the summary of outcomes.
func Summarize(outcomes []game.Outcome) Summary {
	s := Summary{Sessions: len(outcomes), Reasons: make(map[string]int)}
	if len(outcomes) == 0 {
		return s
	}

	ticks := make([]float64, len(outcomes))
	scores := make([]float64, len(outcomes))
	health := make([]float64, len(outcomes))
	allies := make([]float64, len(outcomes))
	wins := make([]float64, len(outcomes))
	fired := make([]float64, len(outcomes))
	for i, o := range outcomes {
		s.Reasons[o.Reason]++
		ticks[i] = float64(o.Ticks)
		scores[i] = float64(o.Score)
		health[i] = o.BossHealth
		allies[i] = float64(o.Allies)
		switch systems.Reason(o.Reason) {
		case systems.ReasonUnionized, systems.ReasonBecameBoss:
			wins[i] = 1
		case systems.ReasonFired:
			fired[i] = 1
		}
	}

	n := float64(len(outcomes))
	s.WinRate = floats.Sum(wins) / n
	s.FiredRate = floats.Sum(fired) / n
	s.MeanAllies = stat.Mean(allies, nil)
	s.Ticks = telemetry.Describe(ticks)
	s.Score = telemetry.Describe(scores)
	s.BossHealth = telemetry.Describe(health)
	if len(outcomes) > 1 && s.Ticks.Std > 0 && s.Score.Std > 0 {
		s.TickScoreCorr = stat.Correlation(ticks, scores, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sessions", s.Sessions),
		slog.Float64("win_rate", s.WinRate),
		slog.Float64("fired_rate", s.FiredRate),
		slog.Float64("ticks_mean", s.Ticks.Mean),
		slog.Float64("ticks_p50", s.Ticks.P50),
		slog.Float64("ticks_p90", s.Ticks.P90),
		slog.Float64("score_mean", s.Score.Mean),
		slog.Float64("score_std", s.Score.Std),
		slog.Float64("boss_health_p50", s.BossHealth.P50),
		slog.Float64("allies_mean", s.MeanAllies),
		slog.Float64("tick_score_corr", s.TickScoreCorr),
	)
}

// WriteOutcomes writes one CSV row per outcome.
func WriteOutcomes(path string, outcomes []game.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating outcomes: %w", err)
	}
	if err := gocsv.MarshalFile(&outcomes, f); err != nil {
		f.Close()
		return fmt.Errorf("writing outcomes: %w", err)
	}
	return f.Close()
}
