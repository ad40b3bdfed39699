package configx

// Config - config interface.
type Config interface {
	GetServiceName() string
	GetVersion() string
	GetEnvironment() string
	GetServerConfig() *ServerConfig
	GetLoggingConfig() *LoggingConfig
	GetDatabaseConfig() *DatabaseConfig
	IsLocalEnvironment() bool
}

// BaseConfig - app config struct.
// This struct represents the base configuration for the application and is expected to be in the following YAML format:
/*
name: "sql-gateway"
environment: "development"
version: "1.0"
logging:
  level: "debug"
database:
  maxConnsPerPool: 10
  minIdlePerPool: 1
  acquireTimeoutMs: 0
  shutdownTimeoutMs: 5000
server:
  port: "8080"
  concurrency: 10
  disableStartupMsg: false
*/
type BaseConfig struct {
	Name        string          `mapstructure:"name"`
	Environment string          `mapstructure:"environment"`
	Version     string          `mapstructure:"version"`
	Logging     *LoggingConfig  `mapstructure:"logging"`
	Server      *ServerConfig   `mapstructure:"server"`
	Database    *DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Port                  string `mapstructure:"port"`
	Concurrency           int    `mapstructure:"concurrency"`
	DisableStartupMessage bool   `mapstructure:"disableStartupMsg"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig - pool tuning applied to every descriptor-addressed pool.
type DatabaseConfig struct {
	MaxConnsPerPool   int32 `mapstructure:"maxConnsPerPool"`
	MinIdlePerPool    int32 `mapstructure:"minIdlePerPool"`
	AcquireTimeoutMs  int64 `mapstructure:"acquireTimeoutMs"`
	ShutdownTimeoutMs int64 `mapstructure:"shutdownTimeoutMs"`
}

func (cfg BaseConfig) GetServiceName() string {
	return cfg.Name
}

func (cfg BaseConfig) GetVersion() string {
	return cfg.Version
}

func (cfg BaseConfig) GetEnvironment() string {
	return cfg.Environment
}

func (cfg BaseConfig) IsLocalEnvironment() bool {
	return checkIfLocalEnv(cfg.Environment)
}

func (cfg BaseConfig) GetServerConfig() *ServerConfig {
	return cfg.Server
}

func (cfg BaseConfig) GetLoggingConfig() *LoggingConfig {
	return cfg.Logging
}

func (cfg BaseConfig) GetDatabaseConfig() *DatabaseConfig {
	return cfg.Database
}
