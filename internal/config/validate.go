package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Build.validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if c.Validation.Workers <= 0 {
		return fmt.Errorf("validate: workers must be > 0 (got %d)", c.Validation.Workers)
	}
	if c.Dictionary.RequestsPerSecond < 0 {
		return fmt.Errorf("dictionary: requests_per_second must be >= 0 (got %v)", c.Dictionary.RequestsPerSecond)
	}
	if c.Database.Enabled() && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database: min_conns (%d) must be <= max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	return nil
}

func (cc *CacheConfig) validate() error {
	cc.Backend = strings.ToLower(strings.TrimSpace(cc.Backend))
	switch cc.Backend {
	case CacheBackendFile, CacheBackendBadger:
		if cc.Path == "" {
			return fmt.Errorf("path is required for backend %q", cc.Backend)
		}
	case CacheBackendNone:
	default:
		return fmt.Errorf("unknown backend %q (want file, badger or none)", cc.Backend)
	}
	return nil
}

func (b *BuildConfig) validate() error {
	if b.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0 (got %d)", b.MaxDepth)
	}
	if b.MaxNodesPerDefinition <= 0 {
		return fmt.Errorf("max_nodes_per_definition must be > 0 (got %d)", b.MaxNodesPerDefinition)
	}
	if b.MaxDefinitionsPerNode < 0 {
		return fmt.Errorf("max_definitions_per_node must be >= 0 (got %d)", b.MaxDefinitionsPerNode)
	}
	if b.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must be >= 0 (got %d)", b.MaxNodes)
	}
	if b.TimeBudget < 0 {
		return fmt.Errorf("time_budget must be >= 0 (got %v)", b.TimeBudget)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	s.Direction = strings.ToLower(strings.TrimSpace(s.Direction))
	if s.Direction != "outgoing" && s.Direction != "both" {
		return fmt.Errorf("direction must be outgoing or both (got %q)", s.Direction)
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0, 1] (got %v)", s.Alpha)
	}
	if s.MaxPaths <= 0 {
		return fmt.Errorf("max_paths must be > 0 (got %d)", s.MaxPaths)
	}
	if s.TopN <= 0 {
		return fmt.Errorf("top_n must be > 0 (got %d)", s.TopN)
	}
	return nil
}
