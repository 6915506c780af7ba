package engine

import (
	"context"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/storage"
	"github.com/sandeepkv93/wellnessd/internal/timer"
)

// rollover archives the previous day's totals once the clock moves to a new
// calendar day and clears today's counters. Running flags are kept.
func (e *Engine) rollover(ctx context.Context) Outcome {
	now := e.clock.Now()
	today := model.DayKey(now)
	if today == e.day {
		return Outcome{}
	}
	e.Flush(ctx)
	e.logger.Info("day rollover", "from", e.day, "to", today)

	running := e.screen.Running
	e.screen = timer.NewScreenTime(now)
	e.screen.Running = running

	e.breaks.BreaksTaken = 0

	if e.water.CycleRunning() {
		e.bump(MachineHydration)
	}
	e.water = timer.NewHydration()

	e.day = today
	e.persist(ctx, MachineScreen)
	e.persist(ctx, MachineBreaks)
	e.persist(ctx, MachineHydration)
	return Outcome{Changed: true}
}

// Flush writes the totals of the current day to the daily stats table.
func (e *Engine) Flush(ctx context.Context) {
	stat := storage.DailyStat{
		Day:           e.day,
		ScreenSeconds: e.screen.ElapsedSeconds,
		BreaksTaken:   e.breaks.BreaksTaken,
		Glasses:       e.water.Glasses,
	}
	if err := e.store.UpsertDailyStat(ctx, stat); err != nil {
		e.logger.Warn("failed to archive daily stats", "day", e.day, "error", err)
	}
}

func (e *Engine) Today() storage.DailyStat {
	return storage.DailyStat{
		Day:           e.day,
		ScreenSeconds: e.screen.ElapsedSeconds,
		BreaksTaken:   e.breaks.BreaksTaken,
		Glasses:       e.water.Glasses,
	}
}
