package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	Debug                    bool          `envconfig:"debug"`
	Port                     int           `envconfig:"port" default:"8080"`
	Env                      string        `envconfig:"env" default:"dev"`
	DBDriver                 string        `envconfig:"db_driver" default:"postgres"`
	PostgresHost             string        `envconfig:"postgres_host"`
	PostgresUser             string        `envconfig:"postgres_user"`
	PostgresDB               string        `envconfig:"postgres_db"`
	PostgresPort             int           `envconfig:"postgres_port" default:"5432"`
	PostgresPassword         string        `envconfig:"postgres_password"`
	SQLitePath               string        `envconfig:"sqlite_path" default:"chatx.db"`
	MongoURL                 string        `envconfig:"mongo_url"`
	MongoDB                  string        `envconfig:"mongo_db" default:"chatx"`
	JWTSecret                string        `envconfig:"jwt_secret"`
	AccessTokenTTL           time.Duration `envconfig:"access_token_ttl" default:"24h"`
	RequestTimeout           time.Duration `envconfig:"request_timeout" default:"15s"`
	SearchConcurrency        int           `envconfig:"search_concurrency" default:"8"`
	SearchRateLimit          uint          `envconfig:"search_rate_limit" default:"60"`
	UploadDir                string        `envconfig:"upload_dir" default:"uploads"`
	AWSRegion                string        `envconfig:"aws_region"`
	AWSBucket                string        `envconfig:"aws_bucket"`
	AWSAccessKeyID           string        `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey       string        `envconfig:"aws_secret_access_key"`
	AccessControlAllowOrigin string        `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Warn("couldn't load env vars", "err", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("chatx", c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	case DriverMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("mongo_url is required when db_driver is %q", DriverMongo)
		}
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.SearchConcurrency < 1 {
		return fmt.Errorf("search_concurrency must be positive, got %d", c.SearchConcurrency)
	}
	return nil
}

// UsesS3 reports whether group pictures go to an S3 bucket instead of the local upload dir.
func (c *Config) UsesS3() bool {
	return c.AWSBucket != "" && c.AWSRegion != ""
}
