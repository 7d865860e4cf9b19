package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/pkg/constants"
)

var (
	ErrNoLogger    = errors.New("logger not found")
	ErrNoActorRole = errors.New("actor role not found")
)

// UseLogger returns the request-scoped logger from the context.
func UseLogger(ctx context.Context) (*logrus.Entry, error) {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return nil, ErrNoLogger
	}
	return logger, nil
}

// MustUseLogger returns the request logger or panics.
func MustUseLogger(ctx context.Context) *logrus.Entry {
	logger, err := UseLogger(ctx)
	if err != nil {
		panic(err)
	}
	return logger
}

// WithActorRole returns a new context carrying the acting user's payroll role.
func WithActorRole(ctx context.Context, role workflow.Role) context.Context {
	return context.WithValue(ctx, constants.ActorRoleKey, role)
}

// UseActorRole returns the payroll role the auth layer attached upstream.
func UseActorRole(ctx context.Context) (workflow.Role, error) {
	role, ok := ctx.Value(constants.ActorRoleKey).(workflow.Role)
	if !ok {
		return "", ErrNoActorRole
	}
	return role, nil
}
