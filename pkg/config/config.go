package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// FactorWeights are the decision-scoring weights. They must sum to 1.0.
type FactorWeights struct {
	Affordability   float64 `yaml:"affordability" default:"0.30"`
	OpportunityCost float64 `yaml:"opportunity_cost" default:"0.20"`
	GoalAlignment   float64 `yaml:"goal_alignment" default:"0.20"`
	RiskImpact      float64 `yaml:"risk_impact" default:"0.15"`
	Timing          float64 `yaml:"timing" default:"0.15"`
}

// Sum returns the total weight.
func (w FactorWeights) Sum() float64 {
	return w.Affordability + w.OpportunityCost + w.GoalAlignment + w.RiskImpact + w.Timing
}

// EngineConfig holds every detector, scorer and router tunable. Monetary
// thresholds are in minor units (paise). The zero value is unusable; call
// DefaultEngine or load through Load, which applies the defaults below.
type EngineConfig struct {
	LiquidityBufferMonths  float64 `yaml:"liquidity_buffer_months" default:"1"`
	SafetyFloorMonths      float64 `yaml:"safety_floor_months" default:"3"`
	YieldGapMinAnnual      int64   `yaml:"yield_gap_min_annual" default:"100000"`
	DriftTolerancePct      float64 `yaml:"drift_tolerance_pct" default:"10"`
	OverspendWindowDays    int     `yaml:"overspend_window_days" default:"90"`
	OverspendFactor        float64 `yaml:"overspend_factor" default:"1.5"`
	OverspendReductionPct  float64 `yaml:"overspend_reduction_pct" default:"0.25"`
	ProjectionHorizonYears int     `yaml:"projection_horizon_years" default:"5"`
	MarketReturnAnnual     float64 `yaml:"market_return_annual" default:"0.10"`
	MinLiquidityMonths     float64 `yaml:"min_liquidity_months" default:"3"`
	MaxDebtToIncome        float64 `yaml:"max_debt_to_income" default:"0.35"`
	TaxContributionLimit   int64   `yaml:"tax_contribution_limit" default:"15000000"`
	TaxMarginalRate        float64 `yaml:"tax_marginal_rate" default:"0.30"`
	TaxIncomeFloor         int64   `yaml:"tax_income_floor" default:"50000000"`
	MaxOpportunities       int     `yaml:"max_opportunities" default:"3"`

	// Router classifications below this confidence always go remote.
	ClassificationConfidenceThreshold float64 `yaml:"classification_confidence_threshold" default:"0.6"`

	Weights FactorWeights `yaml:"factor_weights"`
}

// DefaultEngine returns an EngineConfig with every default applied.
func DefaultEngine() EngineConfig {
	var e EngineConfig
	if err := defaults.Set(&e); err != nil {
		panic(fmt.Sprintf("engine defaults: %v", err))
	}
	return e
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Engine EngineConfig `yaml:"engine"`
	Models struct {
		Local struct {
			URL     string        `yaml:"url"`
			Model   string        `yaml:"model" default:"gemma:2b"`
			Timeout time.Duration `yaml:"timeout" default:"900ms"`
		} `yaml:"local"`
		Remote struct {
			URL     string        `yaml:"url"`
			APIKey  string        `yaml:"api_key"`
			Model   string        `yaml:"model" default:"gemini-1.5-pro"`
			Timeout time.Duration `yaml:"timeout" default:"8s"`
		} `yaml:"remote"`
	} `yaml:"models"`
	ProfileSource struct {
		URL      string        `yaml:"url"`
		Timeout  time.Duration `yaml:"timeout" default:"3s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"30s"`
		Redis    struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"profile_source"`
	Sink struct {
		Type  string `yaml:"type" default:"none"` // none, kafka or clickhouse
		Kafka struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic" default:"avesto.analyses"`
			Compression  string        `yaml:"compression" default:"gzip"`
			RequiredAcks int           `yaml:"required_acks" default:"-1"`
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host        string        `yaml:"host" default:"localhost"`
			Port        int           `yaml:"port" default:"9000"`
			Database    string        `yaml:"database" default:"avesto"`
			Table       string        `yaml:"table" default:"analyses"`
			User        string        `yaml:"user" default:"default"`
			Password    string        `yaml:"password"`
			DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		} `yaml:"clickhouse"`
	} `yaml:"sink"`
	HealthStream struct {
		Interval time.Duration `yaml:"interval" default:"5s"`
	} `yaml:"health_stream"`
}

// Load reads and parses a YAML configuration file, filling any field the file
// leaves unset with its default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("REMOTE_MODEL_API_KEY"); v != "" {
		c.Models.Remote.APIKey = v
	}
	if v := os.Getenv("REMOTE_MODEL_URL"); v != "" {
		c.Models.Remote.URL = v
	}
	if v := os.Getenv("LOCAL_MODEL_URL"); v != "" {
		c.Models.Local.URL = v
	}
	if v := os.Getenv("PROFILE_SOURCE_URL"); v != "" {
		c.ProfileSource.URL = v
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Sink.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Sink.Type {
	case "none", "kafka", "clickhouse":
	default:
		return fmt.Errorf("sink.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Sink.Type)
	}
	if c.Sink.Type == "kafka" && len(c.Sink.Kafka.Brokers) == 0 {
		return fmt.Errorf("sink.kafka.brokers cannot be empty")
	}
	if c.ProfileSource.URL == "" {
		return fmt.Errorf("profile_source.url is required")
	}
	if s := c.Engine.Weights.Sum(); math.Abs(s-1.0) > 1e-9 {
		return fmt.Errorf("engine.factor_weights must sum to 1.0, got %.4f", s)
	}
	if c.Engine.MaxOpportunities <= 0 {
		return fmt.Errorf("engine.max_opportunities must be positive")
	}
	return nil
}
