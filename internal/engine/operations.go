package engine

import (
	"context"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/timer"
)

func (e *Engine) StartScreen(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	if e.screen.Running {
		return out
	}
	req := e.bump(MachineScreen)
	e.screen = timer.StartScreen(e.screen)
	e.persist(ctx, MachineScreen)
	e.publish()
	out.Changed = true
	out.Tick = &req
	return out
}

// PauseScreen cancels the pending tick before touching state. Pausing a
// paused tracker changes nothing.
func (e *Engine) PauseScreen(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	if !e.screen.Running {
		return out
	}
	e.bump(MachineScreen)
	e.screen = timer.PauseScreen(e.screen)
	e.persist(ctx, MachineScreen)
	e.publish()
	out.Changed = true
	return out
}

func (e *Engine) ToggleScreen(ctx context.Context) Outcome {
	if e.screen.Running {
		return e.PauseScreen(ctx)
	}
	return e.StartScreen(ctx)
}

func (e *Engine) ResetScreen(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	e.bump(MachineScreen)
	e.screen = timer.ResetScreen(e.screen, e.clock.Now())
	e.persist(ctx, MachineScreen)
	e.publish()
	out.Changed = true
	return out
}

func (e *Engine) StartBreaks(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	if e.breaks.Started {
		return out
	}
	req := e.bump(MachineBreaks)
	e.breaks = timer.StartBreaks(e.breaks)
	e.persist(ctx, MachineBreaks)
	e.publish()
	out.Changed = true
	out.Tick = &req
	return out
}

func (e *Engine) StopBreaks(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	if !e.breaks.Started {
		return out
	}
	e.bump(MachineBreaks)
	e.breaks = timer.StopBreaks(e.breaks)
	e.persist(ctx, MachineBreaks)
	e.publish()
	out.Changed = true
	return out
}

// BreakNow starts a break early. Outside the early-start window it changes
// nothing and Changed is false.
func (e *Engine) BreakNow(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	next, events, ok := timer.BreakNow(e.breaks, e.settings.Snapshot())
	if !ok {
		return out
	}
	e.breaks = next
	e.persist(ctx, MachineBreaks)
	e.publish()
	out.Changed = true
	e.dispatch(&out, events)
	return out
}

func (e *Engine) CancelBreak(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	next, ok := timer.CancelBreak(e.breaks)
	if !ok {
		return out
	}
	e.breaks = next
	e.persist(ctx, MachineBreaks)
	e.publish()
	out.Changed = true
	return out
}

func (e *Engine) RecordGlass(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	wasRunning := e.water.CycleRunning()
	next, events, ok := timer.RecordGlass(e.water, e.settings.Snapshot())
	if !ok {
		return out
	}
	switch {
	case !wasRunning && next.CycleRunning():
		req := e.bump(MachineHydration)
		out.Tick = &req
	case wasRunning && !next.CycleRunning():
		e.bump(MachineHydration)
	}
	e.water = next
	e.persist(ctx, MachineHydration)
	e.publish()
	out.Changed = true
	e.dispatch(&out, events)
	return out
}

// RefreshWindow recomputes the hourly window for the current time and
// refreshes today's archived totals.
func (e *Engine) RefreshWindow(ctx context.Context) Outcome {
	out := e.rollover(ctx)
	e.screen.History = timer.SlideWindow(e.screen.History, e.clock.Now())
	e.persist(ctx, MachineScreen)
	e.Flush(ctx)
	e.publish()
	out.Changed = true
	return out
}

// SettingsChanged is the single path by which new settings reach the
// machines. Elapsed counters are never touched; remaining time is derived
// from them on the next snapshot.
func (e *Engine) SettingsChanged(ctx context.Context, old, next model.Settings) Outcome {
	var out Outcome
	if old.WaterGoalGlasses != next.WaterGoalGlasses {
		reconciled := timer.ReconcileHydration(e.water, next)
		if reconciled.CycleRunning() != e.water.CycleRunning() {
			e.bump(MachineHydration)
			e.water = reconciled
			e.persist(ctx, MachineHydration)
		}
	}
	e.publish()
	out.Changed = true
	e.logger.Debug("settings applied to timers",
		"break_remaining", timer.BreakRemaining(e.breaks, next),
		"water_remaining", timer.HydrationRemaining(e.water, next),
		"screen_remaining", timer.ScreenRemaining(e.screen, next),
	)
	return out
}

// Resume returns tick requests for every machine that is currently running,
// invalidating any chains started earlier.
func (e *Engine) Resume() []TickRequest {
	var out []TickRequest
	for m := Machine(0); m < machineCount; m++ {
		if e.running(m) {
			out = append(out, e.bump(m))
		}
	}
	return out
}
