package flow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"manga_tracker/filter"
	"manga_tracker/lang"
	"manga_tracker/library"
	"manga_tracker/render"
)

// ListResult is one finished list reload. Seq is the tag from
// filter.Controller.NextRequest; the UI drops results that are not the latest.
type ListResult struct {
	Seq    uint64
	State  filter.State
	Series []library.Series
	Rows   []render.Row
	Err    error
}

func (l ListResult) Unauthorized() bool { return errors.Is(l.Err, library.ErrUnauthorized) }

// LoadList fetches the page described by state. Failures become a single
// error row rather than an error return; the list is never left empty.
func (r *Runner) LoadList(ctx context.Context, seq uint64, state filter.State) ListResult {
	query := filter.BuildQuery(state)
	res := ListResult{Seq: seq, State: state}
	series, err := r.api.ListSeries(ctx, query)
	if err != nil {
		r.log.Info("list reload failed", zap.Uint64("seq", seq), zap.String("query", query), zap.Error(err))
		res.Err = err
		res.Rows = errorRows(err)
		return res
	}
	r.log.Debug("list reloaded", zap.Uint64("seq", seq), zap.String("query", query), zap.Int("count", len(series)))
	res.Series = series
	res.Rows = render.Rows(series)
	return res
}

// errorRows shows the server's text when there is one, and the bare
// "Error loading data" for transport failures.
func errorRows(err error) []render.Row {
	if msg := serverMessage(err); msg != "" {
		return []render.Row{{Message: lang.ListError(msg), IsError: true}}
	}
	if isTransport(err) {
		return render.ErrorRows(nil)
	}
	return render.ErrorRows(err)
}
