package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host     string
	Port     int
	Loopback bool // restrict to the localhost interface

	// Built-in endpoints
	EnablePing  bool // "/$/ping" liveness endpoint
	EnableStats bool // "/$/stats" invocation counters

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "",
		Port:         3330,
		Loopback:     false,
		EnablePing:   false,
		EnableStats:  false,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
