package graph

import (
	"context"
	"time"

	"github.com/finops-kb/costgraph/internal/types"
)

// Client provides an interface for graph database operations.
// Implementations must be thread-safe for concurrent access: the same client
// handle is shared between ingestion and retrieval, which is safe because all
// mutations issued through it are merge-by-key upserts.
type Client interface {
	// Connect establishes a connection to the graph database.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	Close(ctx context.Context) error

	// Health returns the current health status of the graph database connection.
	Health(ctx context.Context) types.HealthStatus

	// Read executes a Cypher query in a read transaction and returns the result set.
	Read(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// Write executes a Cypher statement in a write transaction.
	// All statements issued by costgraph use MERGE semantics, so replaying a
	// write converges to the same graph state.
	Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)
}

// QueryResult represents the result of a Cypher query execution.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// QuerySummary provides metadata about query execution.
type QuerySummary struct {
	ExecutionTime        time.Duration
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
}

// Config contains configuration options for graph database clients.
type Config struct {
	// URI is the connection URI for the graph database.
	// For Neo4j, use:
	//   - "bolt://host:port" for unencrypted connections
	//   - "bolt+s://host:port" for TLS encrypted connections
	//   - "neo4j://" or "neo4j+s://" for routing
	URI string `yaml:"uri" json:"uri" mapstructure:"uri"`

	// Username for authentication.
	Username string `yaml:"username" json:"username" mapstructure:"username"`

	// Password for authentication.
	Password string `yaml:"password" json:"password" mapstructure:"password"`

	// Database name to connect to. Empty string uses the default database.
	Database string `yaml:"database" json:"database" mapstructure:"database"`

	// MaxConnectionPoolSize limits the number of connections in the pool.
	// Zero or negative values use the driver default.
	MaxConnectionPoolSize int `yaml:"pool_size" json:"pool_size" mapstructure:"pool_size"`

	// ConnectionTimeout is the maximum time to wait for a connection.
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout" mapstructure:"connection_timeout"`

	// MaxTransactionRetryTime is the maximum time to retry failed transactions.
	MaxTransactionRetryTime time.Duration `yaml:"max_retry_time" json:"max_retry_time" mapstructure:"max_retry_time"`
}

// DefaultConfig returns a Config with sensible defaults for a local Neo4j.
func DefaultConfig() Config {
	return Config{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		Password:                "password",
		Database:                "",
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.URI == "" {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "Password cannot be empty")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "ConnectionTimeout must be positive")
	}
	if c.MaxTransactionRetryTime <= 0 {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "MaxTransactionRetryTime must be positive")
	}
	return nil
}
