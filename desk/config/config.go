package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/libradesk/circulation-desk/pkg/logger"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"DESK_HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"DESK_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration
}

type CirculationHTTPServer struct {
	Host string `envconfig:"CIRCULATION_HTTP_HOST"`
	Port string `envconfig:"CIRCULATION_HTTP_PORT" default:"5001"`
}

type Desk struct {
	// PageSize is the fixed pagination window of the admin lists.
	PageSize int `envconfig:"DESK_PAGE_SIZE" default:"10"`
	// ToastTTL is how long a transient notification stays visible.
	ToastTTL time.Duration `envconfig:"DESK_TOAST_TTL" default:"2s"`
}

type Config struct {
	Server                HTTPServer `yaml:"server"`
	CirculationHTTPServer CirculationHTTPServer
	Desk                  Desk
	Log                   logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}
