package chromastore

import (
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the Chroma-backed store.
//
// Usage:
//
//	app := fx.New(
//	    chromastore.FXModule,
//	    fx.Provide(func() *chromastore.Config {
//	        return chromastore.FromEndpoint("http://localhost:8000")
//	    }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *chromastore.Config instance must be available in the container
// - A chromastore.Logger instance is optional but recommended
//
// The store is stateless HTTP, so no lifecycle hooks are needed.
var FXModule = fx.Module("chromastore",
	fx.Provide(NewStore),
)
