package telemetry

// Config holds configuration for the tracer
type Config struct {
	// ServiceName is the name of the service
	ServiceName string `yaml:"service_name" json:"service_name"`

	// ServiceVersion is the version of the service
	ServiceVersion string `yaml:"-" json:"-"`

	// Environment is the deployment environment
	Environment string `yaml:"environment" json:"environment"`

	// Enabled determines whether tracing is enabled
	// When false, a noop tracer is used
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Endpoint is the OTLP/HTTP collector endpoint (host:port)
	// If empty, spans are recorded but not exported
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Insecure sends spans over plain HTTP
	Insecure bool `yaml:"insecure" json:"insecure"`

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// DefaultConfig disables tracing; a desktop timer rarely has a collector
func DefaultConfig() Config {
	return Config{
		ServiceName:    "countdown",
		ServiceVersion: "dev",
		Environment:    "local",
		Enabled:        false,
		SampleRate:     1.0,
	}
}
