package sendreportnotification

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	Recipients   []string
	PhoneNumbers []string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
