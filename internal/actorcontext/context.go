package actorcontext

import "context"

// Actor is the authenticated caller attached to a request by the auth
// middleware. The core trusts this context and never re-verifies identity.
type Actor struct {
	UserID    string
	Role      string
	SubCityID string
	IPAddress string
}

type actorKey struct{}

// WithActor stores the acting user in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// FromContext returns the acting user from context, if set.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// System returns the synthetic actor used by scheduled jobs.
func System() Actor {
	return Actor{UserID: "system", Role: "SYSTEM"}
}
