package elasticstore

import (
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the Elasticsearch-backed store.
//
// Usage:
//
//	app := fx.New(
//	    elasticstore.FXModule,
//	    fx.Provide(func() *elasticstore.Config {
//	        return elasticstore.FromAddresses("http://localhost:9200")
//	    }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *elasticstore.Config instance must be available in the container
// - An elasticstore.Logger instance is optional but recommended
//
// The underlying client pools HTTP connections and needs no explicit
// shutdown, so no lifecycle hooks are registered.
var FXModule = fx.Module("elasticstore",
	fx.Provide(NewStore),
)
