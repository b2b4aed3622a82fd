package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env          string        `yaml:"env"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	JWT          struct {
		Secret           string `yaml:"secret"`
		SessionTTLDays   int    `yaml:"sessionTTLDays"`
		VerifyTTLMinutes int    `yaml:"verifyTTLMinutes"`
	} `yaml:"jwt"`
}

type MongoCfg struct {
	URI                string        `yaml:"uri"`
	Database           string        `yaml:"database"`
	UserCollection     string        `yaml:"userCollection"`
	PropertyCollection string        `yaml:"propertyCollection"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout"`
}

type RedisCfg struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type TwilioCfg struct {
	AccountSID       string `yaml:"accountSID"`
	AuthToken        string `yaml:"authToken"`
	VerifyServiceSID string `yaml:"verifyServiceSID"`
}

type AWSCfg struct {
	Region     string `yaml:"region"`
	Bucket     string `yaml:"bucket"`
	PublicRead bool   `yaml:"public_read"`
}

type SecurityCfg struct {
	OtpRateLimitPerPhonePerHour int `yaml:"otpRateLimitPerPhonePerHour"`
	AccessCodeMaxAttempts       int `yaml:"accessCodeMaxAttempts"`
	AccessCodeWindowMinutes     int `yaml:"accessCodeWindowMinutes"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	Mongo    MongoCfg    `yaml:"mongo"`
	Redis    RedisCfg    `yaml:"redis"`
	Twilio   TwilioCfg   `yaml:"twilio"`
	AWS      AWSCfg      `yaml:"aws"`
	Security SecurityCfg `yaml:"security"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("JWT_SECRET", func(v string) { cfg.App.JWT.Secret = v })
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("TWILIO_ACCOUNT_SID", func(v string) { cfg.Twilio.AccountSID = v })
	override("TWILIO_AUTH_TOKEN", func(v string) { cfg.Twilio.AuthToken = v })
	override("TWILIO_SERVICE_SID", func(v string) { cfg.Twilio.VerifyServiceSID = v })
	override("AWS_REGION", func(v string) { cfg.AWS.Region = v })
	override("AWS_BUCKET_NAME", func(v string) { cfg.AWS.Bucket = v })

	override("JWT_SESSION_TTL_DAYS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.SessionTTLDays = n
		}
	})
	override("JWT_VERIFY_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.VerifyTTLMinutes = n
		}
	})
	override("OTP_RATE_LIMIT_PER_PHONE_PER_HOUR", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.OtpRateLimitPerPhonePerHour = n
		}
	})

	if cfg.App.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	if cfg.App.JWT.SessionTTLDays == 0 {
		cfg.App.JWT.SessionTTLDays = 30
	}
	if cfg.App.JWT.VerifyTTLMinutes == 0 {
		cfg.App.JWT.VerifyTTLMinutes = 5
	}
	if cfg.Mongo.UserCollection == "" {
		cfg.Mongo.UserCollection = "landxuser"
	}
	if cfg.Mongo.PropertyCollection == "" {
		cfg.Mongo.PropertyCollection = "properties"
	}
	if cfg.Mongo.ConnectTimeout == 0 {
		cfg.Mongo.ConnectTimeout = 10 * time.Second
	}
	if cfg.Redis.ConnectTimeout == 0 {
		cfg.Redis.ConnectTimeout = 5 * time.Second
	}
	if cfg.Security.OtpRateLimitPerPhonePerHour == 0 {
		cfg.Security.OtpRateLimitPerPhonePerHour = 5
	}
	if cfg.Security.AccessCodeMaxAttempts == 0 {
		cfg.Security.AccessCodeMaxAttempts = 5
	}
	if cfg.Security.AccessCodeWindowMinutes == 0 {
		cfg.Security.AccessCodeWindowMinutes = 15
	}

	return cfg, nil
}
