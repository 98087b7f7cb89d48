package flow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"manga_tracker/lang"
	"manga_tracker/library"
)

// LoadSettings fetches the settings the form starts from.
func (r *Runner) LoadSettings(ctx context.Context) (library.Settings, Result) {
	settings, err := r.api.GetSettings(ctx)
	if err != nil {
		r.log.Warn("loading settings failed", zap.Error(err))
		return library.Settings{}, Result{
			Message:      lang.Active().Settings.LoadFailed,
			Unauthorized: errors.Is(err, library.ErrUnauthorized),
		}
	}
	return settings, Result{OK: true}
}

// SaveSettings sends the sparse payload built by forms.SettingsForm.Payload.
// On success the caller passes the same payload to SettingsForm.Saved.
func (r *Runner) SaveSettings(ctx context.Context, payload map[string]any) Result {
	s := lang.Active().Settings
	if err := r.api.UpdateSettings(ctx, payload); err != nil {
		r.log.Warn("saving settings failed", zap.Error(err))
		return failure(err, s.SaveFailed, func(error) string { return s.SaveFailed })
	}
	return success(s.Saved)
}
