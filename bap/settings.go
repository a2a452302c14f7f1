// SPDX-License-Identifier: MIT

package bap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/branchprice/colgen"
)

// Settings is the file form of the engine options.
//
// Zero values mean "keep the default"; pointer fields distinguish an explicit
// false from an absent key.
//
//	sense: minimize
//	node_order: best-bound
//	time_limit: 30s
//	max_parallelism: 4
//	precision: 1e-6
//	integral_objective: true
//	cuts_enabled: false
//	artificial_cost: 1000
type Settings struct {
	Sense             string        `yaml:"sense" validate:"omitempty,oneof=minimize maximize"`
	NodeOrder         string        `yaml:"node_order" validate:"omitempty,oneof=dfs bfs best-bound"`
	TimeLimit         time.Duration `yaml:"time_limit" validate:"gte=0"`
	MaxParallelism    int           `yaml:"max_parallelism" validate:"gte=0"`
	Precision         float64       `yaml:"precision" validate:"gte=0,lt=1"`
	IntegralObjective *bool         `yaml:"integral_objective"`
	CutsEnabled       *bool         `yaml:"cuts_enabled"`
	ArtificialCost    float64       `yaml:"artificial_cost" validate:"gte=0"`
}

// Environment variables overriding file settings.
const (
	envTimeLimit      = "BAP_TIME_LIMIT"
	envMaxParallelism = "BAP_MAX_PARALLELISM"
	envNodeOrder      = "BAP_NODE_ORDER"
)

var settingsValidate = validator.New()

// ParseSettings decodes YAML settings and validates them. Unknown keys are
// rejected. Empty input yields zero Settings.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("%w: %w", ErrBadSettings, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// LoadSettings reads settings from path, then applies the BAP_TIME_LIMIT,
// BAP_MAX_PARALLELISM and BAP_NODE_ORDER environment overrides. A missing
// file yields the environment overrides alone.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if s, err = ParseSettings(data); err != nil {
			return Settings{}, fmt.Errorf("settings %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}

	if err = s.applyEnv(); err != nil {
		return Settings{}, err
	}
	if err = s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks field ranges.
func (s Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrBadSettings, err)
	}

	return nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv(envTimeLimit); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBadSettings, envTimeLimit, err)
		}
		s.TimeLimit = d
	}
	if v := os.Getenv(envMaxParallelism); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBadSettings, envMaxParallelism, err)
		}
		s.MaxParallelism = n
	}
	if v := os.Getenv(envNodeOrder); v != "" {
		s.NodeOrder = v
	}

	return nil
}

// Options converts s into engine options; zero fields are skipped.
func (s Settings) Options() []Option {
	var opts []Option
	switch s.Sense {
	case "minimize":
		opts = append(opts, WithSense(colgen.Minimize))
	case "maximize":
		opts = append(opts, WithSense(colgen.Maximize))
	}
	switch s.NodeOrder {
	case "dfs":
		opts = append(opts, WithNodeOrder(DepthFirst))
	case "bfs":
		opts = append(opts, WithNodeOrder(BreadthFirst))
	case "best-bound":
		opts = append(opts, WithNodeOrder(BestBound))
	}
	if s.TimeLimit > 0 {
		opts = append(opts, WithTimeLimit(s.TimeLimit))
	}
	if s.MaxParallelism > 0 {
		opts = append(opts, WithMaxParallelism(s.MaxParallelism))
	}
	if s.Precision > 0 {
		opts = append(opts, WithPrecision(s.Precision))
	}
	if s.IntegralObjective != nil {
		opts = append(opts, WithIntegralObjective(*s.IntegralObjective))
	}
	if s.CutsEnabled != nil {
		opts = append(opts, WithCuts(*s.CutsEnabled))
	}
	if s.ArtificialCost > 0 {
		opts = append(opts, WithArtificialCost(s.ArtificialCost))
	}

	return opts
}

// WithSettings applies s on top of the options given before it.
func WithSettings(s Settings) Option {
	opts := s.Options()

	return func(o *Options) {
		for _, opt := range opts {
			opt(o)
		}
	}
}
