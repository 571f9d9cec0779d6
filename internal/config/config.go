package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — вся конфигурация процесса. Источники: defaults, config.yaml, env.
type Config struct {
	Env      string
	LogLevel string

	GRPCAddr string
	HTTPAddr string

	DB         *DBConfig
	Scheduling SchedulingConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Telemetry  TelemetryConfig
	Public     PublicConfig
}

type SchedulingConfig struct {
	// Часовой пояс "настенных часов" салона.
	Location          *time.Location
	StrictTransitions bool
	RejectOverlaps    bool
	BusinessOpen      string
	BusinessClose     string
	SuggestionStep    time.Duration
	WizardSessionTTL  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig — пустой Brokers отключает ретрансляцию событий.
type KafkaConfig struct {
	Brokers      []string
	PollInterval time.Duration
	BatchSize    int
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRatio  float64
}

type PublicConfig struct {
	AllowedOrigins []string
	RatePerMin     int
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load читает конфигурацию. configPaths — каталоги для поиска config.yaml.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GRPC_ADDR", ":50051")
	v.SetDefault("HTTP_ADDR", ":8080")

	setDBDefaults(v)

	v.SetDefault("SCHEDULING_TIMEZONE", "Local")
	v.SetDefault("SCHEDULING_STRICT_TRANSITIONS", false)
	v.SetDefault("SCHEDULING_REJECT_OVERLAPS", false)
	v.SetDefault("BUSINESS_OPEN", "09:00")
	v.SetDefault("BUSINESS_CLOSE", "19:00")
	v.SetDefault("SUGGESTION_STEP_MIN", 30)
	v.SetDefault("WIZARD_SESSION_TTL", "30m")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "2s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 50)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "barber-core")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)

	v.SetDefault("PUBLIC_ALLOWED_ORIGINS", "*")
	v.SetDefault("PUBLIC_RATE_PER_MIN", 60)
}

func fromViper(v *viper.Viper) (*Config, error) {
	dbCfg, err := loadDBConfig(v)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(v.GetString("SCHEDULING_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULING_TIMEZONE: %w", err)
	}

	stepMin := v.GetInt("SUGGESTION_STEP_MIN")
	if stepMin <= 0 {
		return nil, fmt.Errorf("invalid SUGGESTION_STEP_MIN: must be positive")
	}

	ratio := v.GetFloat64("OTEL_SAMPLING_RATIO")
	if ratio < 0 || ratio > 1 {
		ratio = 1
	}

	cfg := &Config{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		GRPCAddr: v.GetString("GRPC_ADDR"),
		HTTPAddr: v.GetString("HTTP_ADDR"),
		DB:       dbCfg,
		Scheduling: SchedulingConfig{
			Location:          loc,
			StrictTransitions: v.GetBool("SCHEDULING_STRICT_TRANSITIONS"),
			RejectOverlaps:    v.GetBool("SCHEDULING_REJECT_OVERLAPS"),
			BusinessOpen:      v.GetString("BUSINESS_OPEN"),
			BusinessClose:     v.GetString("BUSINESS_CLOSE"),
			SuggestionStep:    time.Duration(stepMin) * time.Minute,
			WizardSessionTTL:  v.GetDuration("WIZARD_SESSION_TTL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			PollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
			BatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio:  ratio,
		},
		Public: PublicConfig{
			AllowedOrigins: splitList(v.GetString("PUBLIC_ALLOWED_ORIGINS")),
			RatePerMin:     v.GetInt("PUBLIC_RATE_PER_MIN"),
		},
	}

	if cfg.Scheduling.WizardSessionTTL <= 0 {
		return nil, fmt.Errorf("invalid WIZARD_SESSION_TTL: must be positive")
	}

	return cfg, nil
}

// "a, b,,c" -> [a b c]
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
