package cli

import (
	"context"

	"github.com/thenoetrevino/tablero/internal/app"
)

type appKey struct{}

// WithApp stores the application container in ctx
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// AppFrom returns the container stored by WithApp, or nil
func AppFrom(ctx context.Context) *app.App {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(appKey{}).(*app.App)
	return a
}
