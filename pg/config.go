package pg

import (
	"fmt"
	"time"
)

// Config defines the PostgreSQL connection options of a pgstore deployment.
type Config struct {
	// Debug logs every SQL statement through the module logger.
	Debug bool `yaml:"debug" default:"false"`

	Host     string `yaml:"host"     validate:"required"`
	Port     int    `yaml:"port"     validate:"required"`
	User     string `yaml:"user"     validate:"required"`
	Password string `yaml:"password" validate:"required" mask:"true"`
	Database string `yaml:"database" validate:"required"`

	// SSLMode is one of disable, allow, prefer, require, verify-ca or verify-full.
	SSLMode string `yaml:"sslmode"         default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	// Schema holds the collection tables and is also the connection search path.
	Schema         string        `yaml:"schema"          default:"public"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	// ConnectAttempts is how many times Connect pings the server before giving up.
	ConnectAttempts   uint          `yaml:"connect_attempts"    default:"5"`
	ConnectRetryDelay time.Duration `yaml:"connect_retry_delay" default:"500ms"`

	PoolMaxConns        int32         `yaml:"pool_max_conns"          default:"4"`
	PoolMinConns        int32         `yaml:"pool_min_conns"          default:"1"`
	PoolMaxConnLifetime time.Duration `yaml:"pool_max_conn_lifetime"  default:"1h"`
	PoolMaxConnIdleTime time.Duration `yaml:"pool_max_conn_idle_time" default:"30m"`
}

// DSN returns the key/value connection string for the configuration.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s connect_timeout=%d",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
		c.Schema,
		int(c.ConnectTimeout.Seconds()),
	)
}
