package coordination

import (
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the coordination layer. It binds the
// stub as the Coordinator; swap the provider once a real executor exists.
var FXModule = fx.Module("coordination",
	fx.Provide(
		NewStub,
		func(s *Stub) Coordinator { return s },
	),
)
