package auth

import "context"

// Actor adalah identitas yg disuntik gateway; bukan ambient middleware state,
// tapi parameter eksplisit untuk setiap operasi core.
type Actor struct {
	ID    string
	Admin bool
}

func (a Actor) Authenticated() bool { return a.ID != "" }

type ctxKey struct{}

func NewContext(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(ctxKey{}).(Actor)
	return a
}
