package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/errs"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/sim"
)

type Config struct {
	DataDir            string `env:"LOTTO_DATA_DIR" envDefault:"data"`
	Port               int    `env:"LOTTO_PORT" envDefault:"8081"`
	ServerURL          string `env:"LOTTO_SERVER_URL" envDefault:"http://localhost:8081"` // reporting API used by lottoctl
	DatabaseURL        string `env:"DATABASE_URL"`
	RulesFile          string `env:"LOTTO_RULES_FILE"`
	DrawSchedule       string `env:"LOTTO_DRAW_SCHEDULE" envDefault:"@every 1m"` // cron schedule for one simulation step
	Outlets            int    `env:"LOTTO_OUTLETS" envDefault:"10"`
	PlayersPerStrategy int    `env:"LOTTO_PLAYERS_PER_STRATEGY" envDefault:"200"`
	BalanceCap         int64  `env:"LOTTO_BALANCE_CAP" envDefault:"100000000"`
	MaxDelay           int    `env:"LOTTO_MAX_DELAY" envDefault:"5"`
	Seed               uint64 `env:"LOTTO_SEED"` // 0 picks a random seed
	LogLevel           string `env:"LOTTO_LOG_LEVEL" envDefault:"info"`
	LogFormat          string `env:"LOTTO_LOG_FORMAT" envDefault:"text"`

	Rules gamemath.Rules `env:"-"`
}

// Load reads the environment, applies the rules file if one is named and
// validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	// Prefer PORT (Render, Fly.io, Railway, etc.) over LOTTO_PORT
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			cfg.Port = v
		}
	}
	rules, err := LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadRules overlays the YAML file at path on the default rules. An empty
// path yields the defaults.
func LoadRules(path string) (gamemath.Rules, error) {
	rules := gamemath.DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("%w: rules file %s: %v", errs.ErrInvalidInput, path, err)
	}
	return rules, nil
}

// Validate rejects non-positive sizes, unknown log settings and bad schedules.
func (c *Config) Validate() error {
	var problems []error
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := cron.ParseStandard(c.DrawSchedule); err != nil {
		problems = append(problems, fmt.Errorf("draw schedule %q: %v", c.DrawSchedule, err))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Errorf("log format %q is neither text nor json", c.LogFormat))
	}
	if err := c.Sim().Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := c.Rules.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := errors.Join(problems...); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}
	return nil
}

// Sim is the simulated population described by c.
func (c *Config) Sim() sim.Config {
	return sim.Config{
		Outlets:            c.Outlets,
		PlayersPerStrategy: c.PlayersPerStrategy,
		BalanceCap:         c.BalanceCap,
		MaxDelay:           c.MaxDelay,
	}
}

// Logger builds a logrus logger with the configured level and format.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
