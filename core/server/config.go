package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Environment selects runtime behaviour (development, production).
	Environment string `mapstructure:"environment" default:"production"`
}

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// IsValidEnvironment checks if the configured environment is valid.
func (c Config) IsValidEnvironment() bool {
	switch c.Environment {
	case EnvironmentDevelopment, EnvironmentProduction:
		return true
	default:
		return false
	}
}

// IsDevelopment reports whether verbose development diagnostics should be emitted.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}
