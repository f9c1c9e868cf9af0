package memstore

import "go.uber.org/fx"

// FXModule defines the Fx module for the in-process store.
//
// Usage:
//
//	app := fx.New(
//	    memstore.FXModule,
//	    fx.Provide(func() memstore.Config {
//	        return memstore.Config{Dimension: 768}
//	    }),
//	)
//
// Dependencies required by this module:
// - A memstore.Config instance must be available in the dependency injection container
var FXModule = fx.Module("memstore",
	fx.Provide(New),
)
