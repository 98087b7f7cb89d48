package flow

import (
	"context"

	"go.uber.org/zap"

	"manga_tracker/lang"
)

// Login submits the password. The session cookie is kept by the client.
func (r *Runner) Login(ctx context.Context, password string) Result {
	s := lang.Active().Login
	if err := r.api.Login(ctx, password); err != nil {
		r.log.Info("login failed", zap.Error(err))
		res := failure(err, s.Failed, func(error) string { return s.Connection })
		res.Unauthorized = false
		return res
	}
	r.log.Info("logged in")
	return success("")
}
