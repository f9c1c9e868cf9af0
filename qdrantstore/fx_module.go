package qdrantstore

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the Qdrant-backed store.
//
// The module:
//  1. Provides the NewStore factory to the dependency injection container.
//  2. Invokes RegisterStoreLifecycle so the gRPC connection is closed on
//     application shutdown.
//
// Usage:
//
//	app := fx.New(
//	    qdrantstore.FXModule,
//	    fx.Provide(func() *qdrantstore.Config {
//	        return qdrantstore.FromEndpoint("localhost").WithCollection("ideas")
//	    }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *qdrantstore.Config instance must be available in the container
// - A qdrantstore.Logger instance is optional but recommended
var FXModule = fx.Module("qdrantstore",
	fx.Provide(NewStore),
	fx.Invoke(RegisterStoreLifecycle),
)

// RegisterStoreLifecycle closes the underlying client when the application
// stops. Construction already happened inside NewStore, so only OnStop is
// needed.
func RegisterStoreLifecycle(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
}
