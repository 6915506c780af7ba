package update

import (
	"context"

	"github.com/sandeepkv93/wellnessd/internal/engine"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/notify"
	"github.com/sandeepkv93/wellnessd/internal/settings"
)

// Wire routes every settings change to the engine and the notifier. The
// returned func detaches them.
func Wire(ctx context.Context, store *settings.Store, eng *engine.Engine, dispatcher *notify.Dispatcher) func() {
	if dispatcher != nil {
		dispatcher.SetSound(store.Snapshot().SoundEnabled)
	}
	return store.Subscribe(func(old, next model.Settings) {
		eng.SettingsChanged(ctx, old, next)
		if dispatcher != nil && old.SoundEnabled != next.SoundEnabled {
			dispatcher.SetSound(next.SoundEnabled)
		}
	})
}
