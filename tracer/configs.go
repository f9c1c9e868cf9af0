package tracer

// Config controls the OpenTelemetry tracer setup.
type Config struct {
	// ServiceName identifies this service in trace backends.
	ServiceName string `yaml:"service_name" env:"TRACER_SERVICE_NAME"`

	// AppEnv is the deployment environment attribute, e.g. "production".
	AppEnv string `yaml:"app_env" env:"APP_ENV"`

	// EnableExport enables the OTLP HTTP exporter. When false, spans are
	// created but never exported, which is cheap enough to leave on in
	// tests and local runs.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		ServiceName: "vectorsearch",
		AppEnv:      "development",
	}
}
