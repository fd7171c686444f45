package server

import (
	"time"

	"github.com/kbukum/pipelayer/util"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr         string        `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gte=0"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	c.Addr = util.Coalesce(c.Addr, ":8080")
	c.ReadTimeout = util.Coalesce(c.ReadTimeout, 15*time.Second)
	c.WriteTimeout = util.Coalesce(c.WriteTimeout, 15*time.Second)
	c.IdleTimeout = util.Coalesce(c.IdleTimeout, 60*time.Second)
	c.MaxBodyBytes = util.Coalesce(c.MaxBodyBytes, 1<<20)
}
