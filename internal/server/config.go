package server

import "time"

// Config holds the HTTP listener settings.
type Config struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxBodyBytes bounds POST bodies such as manifests.
	MaxBodyBytes int64
}

const (
	DefaultListenAddr   = "0.0.0.0:8080"
	DefaultMaxBodyBytes = 5 << 20
)

func (c Config) withDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}
