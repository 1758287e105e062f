package config

type Config interface {
	EnvConfig
	OAuthConfig
	StoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Store
}

func New() Config {
	return mainConfig{}
}
