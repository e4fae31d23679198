package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Env     string `env:"ENV"      envDefault:"DEV"`
	AppName string `env:"APP_NAME" envDefault:"Job Board"`
	Port    string `env:"PORT"     envDefault:"8000"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8000"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) IsDev() bool {
	return e.GetEnv() == "DEV"
}
