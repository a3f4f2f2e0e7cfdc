package app

import "context"

type contextKey struct{}

// FromContext returns the App stored by WithApp
func FromContext(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(contextKey{}).(*App)
	if !ok || a == nil {
		return nil, ErrNotInitialized
	}
	return a, nil
}

// WithApp stores a in ctx for the subcommands
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}
