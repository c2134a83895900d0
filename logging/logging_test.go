package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlexMincu/dirsync/logging"
)

func TestModuleWithoutFactoryReturnsNullLogger(t *testing.T) {
	l := logging.Module("mymod")(context.Background())

	require.NotNil(t, l)

	// must not panic
	l.Debugf("debug %v", 1)
	l.Infof("info %v", 2)
}

func TestModuleUsesFactoryFromContext(t *testing.T) {
	var gotModule string

	fac := func(module string) logging.Logger {
		gotModule = module

		return logging.NullLogger
	}

	ctx := logging.WithLogger(context.Background(), fac)

	logging.Module("mymod")(ctx).Infof("hello")

	require.Equal(t, "mymod", gotModule)
}

func TestWithNilFactoryIsANoOp(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, ctx, logging.WithLogger(ctx, nil))
}
