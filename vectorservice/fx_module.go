package vectorservice

import (
	"go.uber.org/fx"

	"github.com/ideascout/vectorsearch/vectorstore"
)

// ModuleParams collects the orchestrator dependencies from the Fx
// container. Everything except the embedder and the mirror is optional.
type ModuleParams struct {
	fx.In

	Config   *Config           `optional:"true"`
	Embedder Embedder
	Primary  vectorstore.Store `optional:"true"`
	Mirror   Mirror

	Logger  Logger     `optional:"true"`
	Metrics Recorder   `optional:"true"`
	Tracer  SpanTracer `optional:"true"`
}

func provideService(p ModuleParams) (*Service, error) {
	return New(Params{
		Config:   p.Config,
		Embedder: p.Embedder,
		Primary:  p.Primary,
		Mirror:   p.Mirror,
		Logger:   p.Logger,
		Metrics:  p.Metrics,
		Tracer:   p.Tracer,
	})
}

// FXModule defines the Fx module for the vector search orchestrator.
//
// Usage:
//
//	app := fx.New(
//	    memstore.FXModule,
//	    qdrantstore.FXModule,
//	    vectorservice.FXModule,
//	    fx.Provide(func(s *qdrantstore.Store) vectorstore.Store { return s }),
//	    // other modules...
//	)
//
// The primary store binding decides which backend fronts the cascade; leave
// it unbound to run mirror-only.
var FXModule = fx.Module("vectorservice",
	fx.Provide(provideService),
)
