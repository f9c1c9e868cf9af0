package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the embedding package.
//
// Usage:
//
//	app := fx.New(
//	    embedding.FXModule,
//	    fx.Provide(embedding.NewConfig),
//	)
//
// Dependencies required by this module:
// - A *embedding.Config instance must be available in the dependency injection container
// - A Logger implementation (the logger package satisfies it)
var FXModule = fx.Module("embedding",
	fx.Provide(NewClient),
	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle closes the client (and its cache connection)
// on application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
