// Package config loads container configuration from YAML files and
// environment variables.
//
//	var cfg config.ContainerConfig
//	if err := config.LoadConfig("myapp", &cfg); err != nil { ... }
//	c := container.New(container.FromConfig(cfg))
package config
