// Package config loads application configuration from an HCL file, falling
// back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/game"
)

// Config is the complete application configuration.
type Config struct {
	Rules      *RulesSettings      `hcl:"rules,block"`
	Session    *SessionSettings    `hcl:"session,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// RulesSettings configures the table rules. Boolean attributes are pointers
// so an explicit false can be told apart from an omitted attribute.
type RulesSettings struct {
	DealerHitsSoft17 *bool   `hcl:"dealer_hits_soft_17,optional"`
	DoubleAfterSplit *bool   `hcl:"double_after_split,optional"`
	SurrenderAllowed *bool   `hcl:"surrender_allowed,optional"`
	NumDecks         int     `hcl:"num_decks,optional"`
	Penetration      float64 `hcl:"penetration,optional"`
	BlackjackPayout  float64 `hcl:"blackjack_payout,optional"`
}

// SessionSettings configures session persistence.
type SessionSettings struct {
	Dir            string `hcl:"dir,optional"`
	CountingSystem string `hcl:"counting_system,optional"`
}

// SimulationSettings configures simulation defaults.
type SimulationSettings struct {
	Hands         int   `hcl:"hands,optional"`
	Workers       int   `hcl:"workers,optional"`
	Seed          int64 `hcl:"seed,optional"`
	UseDeviations bool  `hcl:"use_deviations,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rules: &RulesSettings{},
		Session: &SessionSettings{
			Dir:            defaultSessionDir(),
			CountingSystem: "hi-lo",
		},
		Simulation: &SimulationSettings{
			Hands:   100000,
			Workers: 4,
		},
	}
}

// defaultSessionDir honours BLACKJACK_HOME and otherwise lands under the
// user home directory.
func defaultSessionDir() string {
	if home := os.Getenv("BLACKJACK_HOME"); home != "" {
		return filepath.Join(home, "sessions")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".blackjack", "sessions")
	}
	return filepath.Join(home, ".blackjack", "sessions")
}

// Load reads configuration from an HCL file. A missing file returns the
// defaults; a present but invalid file is an error.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing blocks and values
	defaults := Default()
	if cfg.Rules == nil {
		cfg.Rules = defaults.Rules
	}
	if cfg.Session == nil {
		cfg.Session = defaults.Session
	}
	if cfg.Simulation == nil {
		cfg.Simulation = defaults.Simulation
	}
	if cfg.Session.Dir == "" {
		cfg.Session.Dir = defaults.Session.Dir
	}
	if cfg.Session.CountingSystem == "" {
		cfg.Session.CountingSystem = defaults.Session.CountingSystem
	}
	if cfg.Simulation.Hands == 0 {
		cfg.Simulation.Hands = defaults.Simulation.Hands
	}
	if cfg.Simulation.Workers == 0 {
		cfg.Simulation.Workers = defaults.Simulation.Workers
	}

	return &cfg, nil
}

// GameRules folds the rules block over the rule defaults and validates the
// result.
func (c *Config) GameRules() (game.GameRules, error) {
	rules := game.DefaultRules()
	if c.Rules != nil {
		if c.Rules.DealerHitsSoft17 != nil {
			rules.DealerHitsSoft17 = *c.Rules.DealerHitsSoft17
		}
		if c.Rules.DoubleAfterSplit != nil {
			rules.DoubleAfterSplit = *c.Rules.DoubleAfterSplit
		}
		if c.Rules.SurrenderAllowed != nil {
			rules.SurrenderAllowed = *c.Rules.SurrenderAllowed
		}
		if c.Rules.NumDecks != 0 {
			rules.NumDecks = c.Rules.NumDecks
		}
		if c.Rules.Penetration != 0 {
			rules.Penetration = c.Rules.Penetration
		}
		if c.Rules.BlackjackPayout != 0 {
			rules.BlackjackPayout = c.Rules.BlackjackPayout
		}
	}
	if err := rules.Validate(); err != nil {
		return game.GameRules{}, fmt.Errorf("invalid rules configuration: %w", err)
	}
	return rules, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if home := os.Getenv("BLACKJACK_HOME"); home != "" {
		return filepath.Join(home, "config.hcl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".blackjack", "config.hcl")
	}
	return filepath.Join(home, ".blackjack", "config.hcl")
}
