package config

// ServerConfig holds the HTTP listeners of the serve command.
type ServerConfig struct {
	// Addr is the API listen address.
	Addr string `json:"addr"`
	// MetricsAddr serves /metrics. Empty disables the endpoint.
	MetricsAddr string `json:"metrics_addr"`
	// Token guards the API with a bearer token when set.
	Token string `json:"token"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
