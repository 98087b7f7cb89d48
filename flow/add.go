package flow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"manga_tracker/forms"
	"manga_tracker/lang"
	"manga_tracker/library"
)

// Lookup asks the backend for series data by external ids. No ids means no request.
func (r *Runner) Lookup(ctx context.Context, ids forms.ExternalIDs) (forms.SeriesForm, Result) {
	s := lang.Active().Add
	query, err := ids.Query()
	if err != nil {
		return forms.SeriesForm{}, Result{Message: s.NoIDs}
	}
	record, err := r.api.LookupExternal(ctx, query)
	if err != nil {
		r.log.Info("external lookup failed", zap.String("query", query), zap.Error(err))
		return forms.SeriesForm{}, failure(err, s.FetchFailed, networkError)
	}
	return forms.FromRecord(record), success(s.FetchOK)
}

// BuildExternal merges the edited lookup result with the ids from the lookup form.
func BuildExternal(form forms.SeriesForm, ids forms.ExternalIDs) (forms.SeriesPayload, error) {
	idPayload, idErr := ids.Payload()
	payload, formErr := form.Payload(idPayload)
	if idErr == nil && formErr == nil {
		return payload, nil
	}
	merged := forms.FieldErrors{}
	for _, err := range []error{idErr, formErr} {
		var fe forms.FieldErrors
		if errors.As(err, &fe) {
			for k, v := range fe {
				merged[k] = v
			}
		}
	}
	return forms.SeriesPayload{}, merged
}

// BuildManual builds a create request without external ids.
func BuildManual(form forms.SeriesForm) (forms.SeriesPayload, error) {
	return form.Payload(map[string]any{})
}

// AddSeries posts a built payload.
func (r *Runner) AddSeries(ctx context.Context, payload forms.SeriesPayload) Result {
	s := lang.Active().Add
	err := r.api.CreateSeries(ctx, payload)
	switch {
	case err == nil:
		r.log.Info("series added", zap.String("title", payload.Title))
		return success(s.Added)
	case errors.Is(err, library.ErrConflict):
		return Result{Message: lang.SeriesExists(serverMessage(err))}
	}
	r.log.Info("series add failed", zap.String("title", payload.Title), zap.Error(err))
	return failure(err, s.AddFailed, networkError)
}

func networkError(err error) string { return lang.NetworkError(err) }
