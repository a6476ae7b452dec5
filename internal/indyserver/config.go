package indyserver

import "time"

// Config holds the HTTP front end's listen address and server timeouts.
type Config struct {
	Address      string        `json:"address" validate:"required"`
	Port         int           `json:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DefaultConfig returns the conventional listen address and timeouts.
func DefaultConfig() *Config {
	return &Config{
		Address:      "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
