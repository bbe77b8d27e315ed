// Package server is configuration of the REST server.
package server

const (
	DefaultPort              = "8080"
	DefaultNullSentinel      = "null"
	DefaultPaginationLimit   = 50
	DefaultPaginationMaximum = 1000
)

// Config is a sealed, read-only configuration of the REST server.
//
// To get Config, load a file with LoadServerConfig or unmarshal with Unmarshal.
type Config struct {
	dbURI            string
	port             string
	schemaRepository string
	nullSentinel     string
	pagination       *PaginationConfig
}

// Connection string of the database.
func (c *Config) DBURI() string {
	return c.dbURI
}

// Port where the server listens.
func (c *Config) Port() string {
	return c.port
}

// Directory of schema repository. Empty means "do not watch schema".
func (c *Config) SchemaRepository() string {
	return c.schemaRepository
}

// Query value meaning "null" for nullable and tree filters.
func (c *Config) NullSentinel() string {
	return c.nullSentinel
}

func (c *Config) Pagination() *PaginationConfig {
	return c.pagination
}

type PaginationConfig struct {
	defaultLimit int
	maxLimit     int
}

// Limit applied when a request does not specify.
func (p *PaginationConfig) DefaultLimit() int {
	return p.defaultLimit
}

// Upper bound of limit. Requests with larger limit are clamped to this.
func (p *PaginationConfig) MaxLimit() int {
	return p.maxLimit
}
