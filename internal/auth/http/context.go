// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// actorKey is a context key type for storing authenticated actors.
type actorKey struct{}

// scopeKey is a context key type for storing tenant scopes.
type scopeKey struct{}

// WithActor stores an authenticated actor in the context.
// This is typically called by the authentication middleware after successful credential validation.
func WithActor(ctx context.Context, actor authDomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves the authenticated actor from the context.
// Returns (actor, true) if an actor is present, or (zero, false) if none was set.
func GetActor(ctx context.Context) (authDomain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(authDomain.Actor)
	return actor, ok
}

// WithScope stores the request's tenant scope in the context. The scope is
// derived from the authenticated client's tenant; HTTP requests never carry
// a bypass.
func WithScope(ctx context.Context, sc scope.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

// GetScope retrieves the tenant scope from the context.
// Returns (scope, true) if present, or (zero, false) if not set.
func GetScope(ctx context.Context) (scope.Scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(scope.Scope)
	return sc, ok
}
