package store

import (
	"context"
	"time"

	"go.uber.org/fx"
)

var (
	ContextTimeout = time.Duration(20) * time.Second
)

var Module = fx.Provide(
	NewConfig,
	NewClientFromConfig,
	NewDatabase,
)

func NewDbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ContextTimeout)
}
