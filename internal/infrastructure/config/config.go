package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/bibbank/savings-analytics/internal/domain/service"
)

type AuthConfig struct {
	// Token is the shared secret presented by the application backend.
	Token        string
	JWTSecret    string
	JWTPublicKey string
	JWTIssuer    string
	JWTAudience  string
	JWTLeeway    time.Duration
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	Topic         string
	ClientID      string
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
	// ClientCAFile turns on mutual TLS for both listeners.
	ClientCAFile string
}

func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// Policies groups the tunable constants of the engines.
type Policies struct {
	Limits     service.Limits
	Risk       service.RiskPolicy
	Health     service.HealthPolicy
	Ranking    service.RankingPolicy
	Projection service.ProjectionPolicy
	Alerts     service.AlertPolicy
}

type Config struct {
	ServiceName    string
	Version        string
	GRPCPort       int
	HTTPPort       int
	LogLevel       string
	LogFormat      string
	Reflection     bool
	DefaultHorizon int
	Auth           AuthConfig
	Kafka          KafkaConfig
	RateLimit      RateLimitConfig
	TLS            TLSConfig
	Tracing        TracingConfig
	Policies       Policies
}

// Load reads the configuration from the environment and, when configFile is
// not empty, from that file. Environment variables take precedence; nested
// keys map to upper-case names with dots replaced by underscores
// (risk.limit_ceiling is RISK_LIMIT_CEILING).
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	policies, err := loadPolicies(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServiceName:    v.GetString("service_name"),
		Version:        v.GetString("version"),
		GRPCPort:       v.GetInt("grpc_port"),
		HTTPPort:       v.GetInt("http_port"),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
		Reflection:     v.GetBool("grpc_reflection"),
		DefaultHorizon: v.GetInt("default_horizon_months"),
		Auth: AuthConfig{
			Token:        v.GetString("auth.token"),
			JWTSecret:    v.GetString("auth.jwt_secret"),
			JWTPublicKey: v.GetString("auth.jwt_public_key"),
			JWTIssuer:    v.GetString("auth.jwt_issuer"),
			JWTAudience:  v.GetString("auth.jwt_audience"),
			JWTLeeway:    v.GetDuration("auth.jwt_leeway"),
		},
		Kafka: KafkaConfig{
			Enabled:       v.GetBool("kafka.enabled"),
			Brokers:       splitList(v.GetString("kafka.brokers")),
			Topic:         strings.TrimSpace(v.GetString("kafka.topic")),
			ClientID:      v.GetString("kafka.client_id"),
			TLS:           v.GetBool("kafka.tls"),
			SASLEnabled:   v.GetBool("kafka.sasl_enabled"),
			SASLMechanism: v.GetString("kafka.sasl_mechanism"),
			SASLUsername:  v.GetString("kafka.sasl_username"),
			SASLPassword:  v.GetString("kafka.sasl_password"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
		TLS: TLSConfig{
			CertFile:     v.GetString("tls.cert_file"),
			KeyFile:      v.GetString("tls.key_file"),
			ClientCAFile: v.GetString("tls.client_ca_file"),
		},
		Tracing: TracingConfig{
			Endpoint: v.GetString("otel.endpoint"),
			Insecure: v.GetBool("otel.insecure"),
		},
		Policies: policies,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "savings-analytics")
	v.SetDefault("version", "dev")
	v.SetDefault("grpc_port", 9095)
	v.SetDefault("http_port", 8095)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("grpc_reflection", false)
	v.SetDefault("default_horizon_months", 12)

	v.SetDefault("auth.jwt_issuer", "savings-backend")
	v.SetDefault("auth.jwt_audience", "savings-analytics")
	v.SetDefault("auth.jwt_leeway", "30s")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "analytics.alerts")
	v.SetDefault("kafka.client_id", "savings-analytics")
	v.SetDefault("kafka.sasl_mechanism", "PLAIN")

	v.SetDefault("rate_limit.rps", 50)
	v.SetDefault("rate_limit.burst", 100)

	limits := service.DefaultLimits()
	v.SetDefault("limits.max_horizon_months", limits.MaxHorizonMonths)
	v.SetDefault("limits.max_cycle_months", limits.MaxCycleMonths)
	v.SetDefault("limits.max_members", limits.MaxMembers)
	v.SetDefault("limits.max_groups", limits.MaxGroups)
	v.SetDefault("limits.max_goal_months", limits.MaxGoalMonths)
	v.SetDefault("limits.batch_parallelism", limits.BatchParallelism)

	risk := service.DefaultRiskPolicy()
	v.SetDefault("risk.weight_punctuality", risk.PunctualityWeight.String())
	v.SetDefault("risk.weight_loan_history", risk.LoanHistoryWeight.String())
	v.SetDefault("risk.weight_seniority", risk.SeniorityWeight.String())
	v.SetDefault("risk.weight_savings_to_loan", risk.SavingsToLoanWeight.String())
	v.SetDefault("risk.eligibility_floor", risk.EligibilityFloor.String())
	v.SetDefault("risk.limit_multiple", risk.LimitMultiple.String())
	v.SetDefault("risk.limit_ceiling", risk.LimitCeiling.String())

	v.SetDefault("ranking.badge_band", service.DefaultRankingPolicy().BadgeBand)

	proj := service.DefaultProjectionPolicy()
	v.SetDefault("projection.loan_ceiling", proj.LoanCeiling.String())
	v.SetDefault("projection.collection_rate", proj.DefaultCollectionRate.String())
	v.SetDefault("projection.loan_allocation_rate", proj.DefaultLoanAllocationRate.String())
	v.SetDefault("projection.monthly_interest_rate", proj.DefaultMonthlyInterest.String())
	v.SetDefault("projection.growth_rate", proj.DefaultGrowthRate.String())
}

func loadPolicies(v *viper.Viper) (Policies, error) {
	p := Policies{
		Limits: service.Limits{
			MaxHorizonMonths: v.GetInt("limits.max_horizon_months"),
			MaxCycleMonths:   v.GetInt("limits.max_cycle_months"),
			MaxMembers:       v.GetInt("limits.max_members"),
			MaxGroups:        v.GetInt("limits.max_groups"),
			MaxGoalMonths:    v.GetInt("limits.max_goal_months"),
			BatchParallelism: v.GetInt("limits.batch_parallelism"),
		},
		Risk:       service.DefaultRiskPolicy(),
		Health:     service.DefaultHealthPolicy(),
		Ranking:    service.DefaultRankingPolicy(),
		Projection: service.DefaultProjectionPolicy(),
		Alerts:     service.DefaultAlertPolicy(),
	}
	p.Ranking.BadgeBand = v.GetFloat64("ranking.badge_band")

	decimals := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"risk.weight_punctuality", &p.Risk.PunctualityWeight},
		{"risk.weight_loan_history", &p.Risk.LoanHistoryWeight},
		{"risk.weight_seniority", &p.Risk.SeniorityWeight},
		{"risk.weight_savings_to_loan", &p.Risk.SavingsToLoanWeight},
		{"risk.eligibility_floor", &p.Risk.EligibilityFloor},
		{"risk.limit_multiple", &p.Risk.LimitMultiple},
		{"risk.limit_ceiling", &p.Risk.LimitCeiling},
		{"projection.loan_ceiling", &p.Projection.LoanCeiling},
		{"projection.collection_rate", &p.Projection.DefaultCollectionRate},
		{"projection.loan_allocation_rate", &p.Projection.DefaultLoanAllocationRate},
		{"projection.monthly_interest_rate", &p.Projection.DefaultMonthlyInterest},
		{"projection.growth_rate", &p.Projection.DefaultGrowthRate},
	}
	for _, d := range decimals {
		value, err := decimal.NewFromString(v.GetString(d.key))
		if err != nil {
			return Policies{}, fmt.Errorf("config %s: %w", d.key, err)
		}
		*d.target = value
	}
	return p, nil
}

// Validate checks the loaded configuration for consistency.
func (c Config) Validate() error {
	if c.GRPCPort <= 0 || c.HTTPPort <= 0 {
		return fmt.Errorf("config: ports must be positive")
	}
	if c.Auth.Token == "" && c.Auth.JWTSecret == "" && c.Auth.JWTPublicKey == "" {
		return fmt.Errorf("config: AUTH_TOKEN, AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY is required")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("config: kafka requires brokers and a topic")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("config: TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.TLS.ClientCAFile != "" && !c.TLS.Enabled() {
		return fmt.Errorf("config: TLS_CLIENT_CA_FILE requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("config: rate limit rps and burst must be positive")
	}

	l := c.Policies.Limits
	if l.MaxHorizonMonths < 1 || l.MaxCycleMonths < 1 || l.MaxMembers < 1 || l.MaxGroups < 1 || l.MaxGoalMonths < 1 || l.BatchParallelism < 1 {
		return fmt.Errorf("config: limits must be positive")
	}
	if c.DefaultHorizon < 1 || c.DefaultHorizon > l.MaxHorizonMonths {
		return fmt.Errorf("config: default horizon must be between 1 and %d", l.MaxHorizonMonths)
	}

	r := c.Policies.Risk
	weights := r.PunctualityWeight.Add(r.LoanHistoryWeight).Add(r.SeniorityWeight).Add(r.SavingsToLoanWeight)
	if !weights.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("config: risk weights must sum to 1, got %s", weights)
	}
	if r.LimitCeiling.IsNegative() || r.LimitMultiple.IsNegative() {
		return fmt.Errorf("config: risk limit multiple and ceiling must not be negative")
	}
	if band := c.Policies.Ranking.BadgeBand; band <= 0 || band > 0.5 {
		return fmt.Errorf("config: ranking badge band must be in (0, 0.5]")
	}
	return nil
}

// GRPCAddr returns the gRPC listen address.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the HTTP listen address.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
