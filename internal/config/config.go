package config

import (
	"fmt"
)

type Config interface {
	EnvConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDatabaseURL() string
	GetRedisAddr() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Security
}

// New builds the process configuration from environment variables.
// The token symmetric key and the session secret are mandatory: a missing
// or malformed value is a startup failure, never a runtime retry.
func New() (Config, error) {
	c := mainConfig{}

	if c.GetSessionSecret() == "" {
		return nil, fmt.Errorf("[config.New] %s is required", sessionSecretVar)
	}

	if _, err := c.TokenSymmetricKeyBytes(); err != nil {
		return nil, err
	}

	return c, nil
}
