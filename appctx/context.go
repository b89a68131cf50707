package appctx

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> ledger).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyCorrelationId = ContextKey("CorrelationId")
	// ContextKeyOperator names whoever triggered a mutation (cashier, cli tool).
	ContextKeyOperator = ContextKey("Operator")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// CorrelationId returns the id carried by ctx, or a fresh one.
func CorrelationId(ctx context.Context) string {
	if v, ok := GetString(ctx, ContextKeyCorrelationId); ok && v != "" {
		return v
	}
	return uuid.NewString()
}

// WithCorrelationId makes sure ctx carries a correlation id and returns it.
func WithCorrelationId(ctx context.Context) (context.Context, string) {
	if v, ok := GetString(ctx, ContextKeyCorrelationId); ok && v != "" {
		return ctx, v
	}
	id := uuid.NewString()
	return Set(ctx, ContextKeyCorrelationId, id), id
}

// Operator returns who triggered the current mutation, empty when unknown.
func Operator(ctx context.Context) string {
	v, _ := GetString(ctx, ContextKeyOperator)
	return v
}
