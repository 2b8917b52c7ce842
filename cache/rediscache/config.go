package rediscache

import "time"

// Config defines the Redis connection and key layout of the cache.
type Config struct {
	// Addrs is a comma separated list of "host:port" addresses. More than one address
	// connects to a cluster.
	Addrs    string `yaml:"addrs"    validate:"required"`
	Username string `yaml:"username"`
	Password string `yaml:"password" mask:"true"`
	DB       int    `yaml:"db"       default:"0"`

	// Prefix namespaces every key written by the cache.
	Prefix string `yaml:"prefix" default:"docrepo"`
	// TTL is the expiration of cached documents. Zero keeps them until evicted.
	TTL time.Duration `yaml:"ttl" default:"5m"`
}
