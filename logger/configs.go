package logger

// Log level names accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the behavior of the zap-backed logger.
type Config struct {
	// Level is the minimum level that gets emitted. One of the constants
	// above; anything else falls back to info.
	Level string `yaml:"level" env:"LOG_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"LOG_SERVICE_NAME"`

	// EnableTracing makes the context-aware methods extract trace and span
	// ids from the request context and attach them to log entries.
	EnableTracing bool `yaml:"enable_tracing" env:"LOG_ENABLE_TRACING"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Level:       Info,
		ServiceName: "vectorsearch",
	}
}
