package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Profile is the path to the default reconciliation profile used when a
	// request does not upload one.
	Profile string `mapstructure:"profile" default:""`
	// BodyLimitMB caps upload size in megabytes.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}
