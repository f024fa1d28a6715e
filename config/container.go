package config

import (
	"fmt"

	"github.com/kbukum/bindkit/logger"
)

// ContainerConfig contains the container-level policy knobs.
type ContainerConfig struct {
	// AllowOverriding makes a new unconditional registration replace a prior
	// overlapping one instead of conflicting with it.
	AllowOverriding bool `yaml:"allow_overriding" mapstructure:"allow_overriding"`
	// AutoVerify resolves every known closed service type on Lock, surfacing
	// configuration errors before first real use.
	AutoVerify bool `yaml:"auto_verify" mapstructure:"auto_verify"`
	// Logging configures the engine's structured logging.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to container configuration.
func (c *ContainerConfig) ApplyDefaults() {
	c.Logging.ApplyDefaults()
}

// Validate validates container configuration.
func (c *ContainerConfig) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("container config: %w", err)
	}
	return nil
}
