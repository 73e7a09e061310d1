package checkclarification

import "time"

type Config struct {
	Timeout    time.Duration
	FiscalYear int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		FiscalYear: 2024,
	}
}
