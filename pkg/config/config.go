// Package config loads crust tuning parameters from JSON or YAML files.
//
// Every field is optional. A nil field means "use the default", which the
// Get* accessors supply, so partial files are safe.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/cheesemaker/pkg/crust"
	"github.com/chazu/cheesemaker/pkg/scene"
	"gopkg.in/yaml.v3"
)

// maxFileSize caps config files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// Config holds tuning parameters for a crust run.
type Config struct {
	// Generator selection
	Method      *string  `json:"method,omitempty" yaml:"method,omitempty"`           // auto, brute, delaunay
	MaxEdge     *float64 `json:"max_edge,omitempty" yaml:"max_edge,omitempty"`       // unset = no limit
	Enumeration *string  `json:"enumeration,omitempty" yaml:"enumeration,omitempty"` // combinations, legacy-ordered

	// Predicate policy
	Mode               *string  `json:"mode,omitempty" yaml:"mode,omitempty"`     // dual-offset, alpha
	Offset             *string  `json:"offset,omitempty" yaml:"offset,omitempty"` // vertices, centroid, scale
	Distance           *float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
	ScaleFactor        *float64 `json:"scale_factor,omitempty" yaml:"scale_factor,omitempty"`
	Alpha              *float64 `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	CoincidenceEpsilon *float64 `json:"coincidence_epsilon,omitempty" yaml:"coincidence_epsilon,omitempty"`

	// Execution
	Workers      *int    `json:"workers,omitempty" yaml:"workers,omitempty"`
	SpatialIndex *bool   `json:"spatial_index,omitempty" yaml:"spatial_index,omitempty"`
	EvalTimeout  *string `json:"eval_timeout,omitempty" yaml:"eval_timeout,omitempty"` // duration string like "5s"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Load reads a Config from a .json, .yaml or .yml file and validates it.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(cleanPath), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that are set.
func (c *Config) Validate() error {
	if c.Method != nil {
		if _, err := scene.ParseMethod(*c.Method); err != nil {
			return err
		}
	}
	if c.MaxEdge != nil && (math.IsNaN(*c.MaxEdge) || *c.MaxEdge < 0) {
		return fmt.Errorf("max_edge must be >= 0, got %g", *c.MaxEdge)
	}
	if c.Enumeration != nil {
		if _, err := crust.ParseEnumeration(*c.Enumeration); err != nil {
			return err
		}
	}
	if c.Mode != nil {
		if _, err := crust.ParseMode(*c.Mode); err != nil {
			return err
		}
	}
	if c.Offset != nil {
		if _, err := crust.ParseOffset(*c.Offset); err != nil {
			return err
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.EvalTimeout != nil && *c.EvalTimeout != "" {
		if _, err := time.ParseDuration(*c.EvalTimeout); err != nil {
			return fmt.Errorf("invalid eval_timeout '%s': %w", *c.EvalTimeout, err)
		}
	}

	_, err := c.Policy()
	return err
}

// GetMethod returns the method or auto.
func (c *Config) GetMethod() scene.Method {
	if c.Method == nil {
		return scene.MethodAuto
	}
	m, err := scene.ParseMethod(*c.Method)
	if err != nil {
		return scene.MethodAuto
	}
	return m
}

// GetMaxEdge returns the edge limit or crust.NoEdgeLimit.
func (c *Config) GetMaxEdge() float64 {
	if c.MaxEdge == nil {
		return crust.NoEdgeLimit
	}
	return *c.MaxEdge
}

// GetEnumeration returns the enumeration or combinations.
func (c *Config) GetEnumeration() crust.Enumeration {
	if c.Enumeration == nil {
		return crust.EnumerateCombinations
	}
	e, err := crust.ParseEnumeration(*c.Enumeration)
	if err != nil {
		return crust.EnumerateCombinations
	}
	return e
}

// GetWorkers returns the worker count, at least 1.
func (c *Config) GetWorkers() int {
	if c.Workers == nil || *c.Workers < 1 {
		return 1
	}
	return *c.Workers
}

// GetSpatialIndex returns whether the k-d tree index is used (default true).
func (c *Config) GetSpatialIndex() bool {
	if c.SpatialIndex == nil {
		return true
	}
	return *c.SpatialIndex
}

// GetEvalTimeout returns the script timeout, 5s by default.
func (c *Config) GetEvalTimeout() time.Duration {
	if c.EvalTimeout == nil || *c.EvalTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(*c.EvalTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Policy builds the predicate policy from the set fields on top of
// crust.DefaultPolicy and validates it.
func (c *Config) Policy() (crust.Policy, error) {
	p := crust.DefaultPolicy()
	if c.Mode != nil {
		m, err := crust.ParseMode(*c.Mode)
		if err != nil {
			return p, err
		}
		p.Mode = m
	}
	if c.Offset != nil {
		k, err := crust.ParseOffset(*c.Offset)
		if err != nil {
			return p, err
		}
		p.Offset = k
	}
	if c.Distance != nil {
		p.Distance = *c.Distance
	}
	if c.ScaleFactor != nil {
		p.ScaleFactor = *c.ScaleFactor
	}
	if c.Alpha != nil {
		p.Alpha = *c.Alpha
	}
	if c.CoincidenceEpsilon != nil {
		p.CoincidenceEpsilon = *c.CoincidenceEpsilon
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Options converts the config into crust.Options.
func (c *Config) Options() (crust.Options, error) {
	p, err := c.Policy()
	if err != nil {
		return crust.Options{}, err
	}
	return crust.Options{
		Policy:       p,
		Enumeration:  c.GetEnumeration(),
		Workers:      c.GetWorkers(),
		SpatialIndex: c.GetSpatialIndex(),
	}, nil
}

// WithSettings returns a copy of c with the scene's overrides applied.
func (c *Config) WithSettings(s scene.Settings) *Config {
	out := *c
	if s.Method != "" {
		out.Method = ptrString(string(s.Method))
	}
	if s.MaxEdge != nil {
		out.MaxEdge = ptrFloat64(*s.MaxEdge)
	}
	if s.Mode != "" {
		out.Mode = ptrString(s.Mode)
	}
	if s.Offset != "" {
		out.Offset = ptrString(s.Offset)
	}
	if s.Distance != nil {
		out.Distance = ptrFloat64(*s.Distance)
	}
	if s.Alpha != nil {
		out.Alpha = ptrFloat64(*s.Alpha)
	}
	if s.Enumeration != "" {
		out.Enumeration = ptrString(s.Enumeration)
	}
	return &out
}
