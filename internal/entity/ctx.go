package entity

import (
	"context"
)

type CtxKey int

const (
	CtxKeyOperator CtxKey = iota
)

// Operator is a back office user authenticated by an admin token.
type Operator struct {
	Name string
}

func CtxWithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, CtxKeyOperator, op)
}

// OperatorFromCtx returns operator from context or ErrUnauthenticated if it is not found.
func OperatorFromCtx(ctx context.Context) (Operator, error) {
	op, ok := ctx.Value(CtxKeyOperator).(Operator)
	if !ok {
		return op, ErrUnauthenticated
	}

	return op, nil
}
