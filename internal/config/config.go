package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Cache      CacheConfig      `yaml:"cache"`
	Build      BuildConfig      `yaml:"build"`
	Search     SearchConfig     `yaml:"search"`
	Validation ValidateConfig   `yaml:"validate"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// DictionaryConfig holds settings for the upstream dictionary API.
type DictionaryConfig struct {
	BaseURL           string        `yaml:"base_url"            env:"DICT_BASE_URL"            env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout           time.Duration `yaml:"timeout"             env:"DICT_TIMEOUT"             env-default:"10s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"DICT_REQUESTS_PER_SECOND" env-default:"2"`
	RetryDelay        time.Duration `yaml:"retry_delay"         env:"DICT_RETRY_DELAY"         env-default:"500ms"`
	MaxAttempts       int           `yaml:"max_attempts"        env:"DICT_MAX_ATTEMPTS"        env-default:"2"`
	// Offline answers lookups from the cache only.
	Offline bool `yaml:"offline" env:"DICT_OFFLINE"`
}

// Cache backends.
const (
	CacheBackendFile   = "file"
	CacheBackendBadger = "badger"
	CacheBackendNone   = "none"
)

// CacheConfig selects where dictionary lookups are persisted between runs.
type CacheConfig struct {
	Backend string `yaml:"backend" env:"CACHE_BACKEND" env-default:"file"`
	// Path is the JSON document for the file backend or the directory for badger.
	Path string `yaml:"path" env:"CACHE_PATH" env-default:"./data/definitions_cache.json"`
}

// BuildConfig holds graph construction limits.
type BuildConfig struct {
	Seed                  string        `yaml:"seed"                     env:"BUILD_SEED"                     env-default:"ease"`
	MaxDepth              int           `yaml:"max_depth"                env:"BUILD_MAX_DEPTH"                env-default:"2"`
	MaxNodesPerDefinition int           `yaml:"max_nodes_per_definition" env:"BUILD_MAX_NODES_PER_DEFINITION" env-default:"5"`
	MaxDefinitionsPerNode int           `yaml:"max_definitions_per_node" env:"BUILD_MAX_DEFINITIONS_PER_NODE" env-default:"3"`
	MaxNodes              int           `yaml:"max_nodes"                env:"BUILD_MAX_NODES"                env-default:"1000"`
	TimeBudget            time.Duration `yaml:"time_budget"              env:"BUILD_TIME_BUDGET"              env-default:"0s"`
	ContextKeywordsRaw    string        `yaml:"context_keywords"         env:"BUILD_CONTEXT_KEYWORDS"`
	OutputPath            string        `yaml:"output_path"              env:"BUILD_OUTPUT_PATH"              env-default:"./data/graph.yaml"`
}

// ContextKeywords splits ContextKeywordsRaw on commas, dropping blanks.
func (b BuildConfig) ContextKeywords() []string {
	var out []string
	for _, k := range strings.Split(b.ContextKeywordsRaw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// SearchConfig holds search engine parameters.
type SearchConfig struct {
	Direction string  `yaml:"direction" env:"SEARCH_DIRECTION" env-default:"outgoing"`
	Alpha     float64 `yaml:"alpha"     env:"SEARCH_ALPHA"     env-default:"0.7"`
	MaxPaths  int     `yaml:"max_paths" env:"SEARCH_MAX_PATHS" env-default:"5"`
	TopN      int     `yaml:"top_n"     env:"SEARCH_TOP_N"     env-default:"10"`
}

// ValidateConfig holds benchmark validation settings.
type ValidateConfig struct {
	DatasetPath string `yaml:"dataset_path" env:"VALIDATE_DATASET_PATH" env-default:"./data/wordsim353.csv"`
	Workers     int    `yaml:"workers"      env:"VALIDATE_WORKERS"      env-default:"8"`
	ReportPath  string `yaml:"report_path"  env:"VALIDATE_REPORT_PATH"  env-default:"./data/metrics_report.txt"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `yaml:"host"                  env:"SERVER_HOST"                  env-default:"0.0.0.0"`
	Port               int           `yaml:"port"                  env:"SERVER_PORT"                  env-default:"8080"`
	ReadTimeout        time.Duration `yaml:"read_timeout"          env:"SERVER_READ_TIMEOUT"          env-default:"10s"`
	WriteTimeout       time.Duration `yaml:"write_timeout"         env:"SERVER_WRITE_TIMEOUT"         env-default:"30s"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"          env:"SERVER_IDLE_TIMEOUT"          env-default:"60s"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"      env:"SERVER_SHUTDOWN_TIMEOUT"      env-default:"10s"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
	CORS               CORSConfig    `yaml:"cors"`
}

// CORSConfig holds CORS settings for browser clients of the search API.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,X-Request-Id"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// DatabaseConfig holds PostgreSQL connection settings for the graph snapshot
// store. An empty DSN disables the store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Enabled reports whether a snapshot store is configured.
func (d DatabaseConfig) Enabled() bool { return d.DSN != "" }
