package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Server struct {
	Host           string `envconfig:"HOST" default:"0.0.0.0"`
	Port           string `envconfig:"PORT" default:"5000"`
	ReadTimeout    int    `envconfig:"SERVER_TIMEOUT" default:"10"`
	RequestTimeout int    `envconfig:"REQUEST_TIMEOUT" default:"10"`
	PublicDir      string `envconfig:"PUBLIC_DIR" default:"./public"`
}

type Db struct {
	Driver        string `envconfig:"DB_DRIVER" default:"mongo"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://127.0.0.1:27017/blogsphere"`
	MongoDatabase string `envconfig:"MONGO_DATABASE"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"blogsphere.db"`
}

type Log struct {
	File  string `envconfig:"LOG_FILE" default:"logs/blogsphere.log"`
	Level string `envconfig:"LOG_LEVEL" default:"debug"`
}

type Config struct {
	Server Server
	DB     Db
	Log    Log
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DB.Driver != DriverMongo && cfg.DB.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q: want %q or %q", cfg.DB.Driver, DriverMongo, DriverSQLite)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return nil, fmt.Errorf("SERVER_TIMEOUT must be positive, got %d", cfg.Server.ReadTimeout)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", cfg.Server.RequestTimeout)
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (s Server) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}
