// Package logger provides a thin, structured wrapper around Uber's Zap.
//
// Every method takes the message, an optional error, and zero or more
// field maps:
//
//	log.Info("record stored", nil, map[string]interface{}{
//	    "id":      "idea-42",
//	    "backend": "qdrant",
//	})
//
// When Config.EnableTracing is set, the *Ctx variants additionally attach
// the trace and span ids of the active OpenTelemetry span, so log entries
// can be correlated with traces.
//
// Packages that log accept their own narrow Logger interface rather than
// this concrete type, keeping them decoupled and trivially mockable; this
// type satisfies all of them.
package logger
