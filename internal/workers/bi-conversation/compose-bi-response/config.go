package composebiresponse

import "time"

type Config struct {
	Timeout          time.Duration
	DisableFollowUps bool
}

func LoadConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}
