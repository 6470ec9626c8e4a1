package config

import "github.com/kelseyhightower/envconfig"

// Env holds settings read from CUPPLAN_* environment variables.
type Env struct {
	ConfigPath string `envconfig:"CONFIG" default:"tournament.yaml"`
	OutputPath string `envconfig:"OUTPUT" default:"schedule.xlsx"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"warn"`
}

func LoadEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process("cupplan", &e); err != nil {
		return nil, err
	}
	return &e, nil
}
