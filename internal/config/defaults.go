package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		Clients: ClientsConfig{
			Identity: IdentityConfig{
				URL:     "http://localhost:4311",
				Timeout: "10s",
			},
			Quotes: QuotesConfig{
				URL:     "https://eodhd.com/api",
				Timeout: "10s",
			},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/papertrade",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/papertrade.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
