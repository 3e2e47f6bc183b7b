package inventory

import "context"

type actorKey struct{}

// WithActor devuelve un contexto que lleva el id del usuario autenticado.
func WithActor(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ContextActorResolver lee el actor colocado por WithActor (el middleware JWT lo hace por request).
type ContextActorResolver struct{}

// CurrentActor implementa ActorResolver.
func (ContextActorResolver) CurrentActor(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}
