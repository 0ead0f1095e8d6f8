package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Mongo struct {
		URI         string `mapstructure:"uri"`
		DB          string `mapstructure:"db"`
		ForceTLS    bool   `mapstructure:"force_tls"`
		InsecureTLS bool   `mapstructure:"insecure_tls"`
	} `mapstructure:"mongo"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Cache struct {
		TTL    time.Duration `mapstructure:"ttl"`
		Prefix string        `mapstructure:"prefix"`
	} `mapstructure:"cache"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
		Issuer        string        `mapstructure:"issuer"`
		BcryptCost    int           `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	GitHub struct {
		BaseURL       string        `mapstructure:"base_url"`
		ClientID      string        `mapstructure:"client_id"`
		ClientSecret  string        `mapstructure:"client_secret"`
		Token         string        `mapstructure:"token"`
		UserAgent     string        `mapstructure:"user_agent"`
		Timeout       time.Duration `mapstructure:"timeout"`
		MaxConcurrent int64         `mapstructure:"max_concurrent"`
	} `mapstructure:"github"`
}

var envBindings = map[string]string{
	"app.port":              "PORT",
	"app.env":               "GO_ENV",
	"log.level":             "LOG_LEVEL",
	"mongo.uri":             "MONGO_URI",
	"mongo.db":              "MONGO_DB",
	"mongo.force_tls":       "MONGO_FORCE_TLS_CONFIG",
	"mongo.insecure_tls":    "MONGO_INSECURE_TLS",
	"redis.addr":            "REDIS_ADDR",
	"redis.password":        "REDIS_PASSWORD",
	"redis.db":              "REDIS_DB",
	"cache.ttl":             "CACHE_TTL",
	"cache.prefix":          "CACHE_PREFIX",
	"auth.jwt_secret":       "JWT_SECRET",
	"auth.token_lifespan":   "TOKEN_LIFESPAN",
	"auth.issuer":           "JWT_ISSUER",
	"auth.bcrypt_cost":      "BCRYPT_COST",
	"github.base_url":       "GITHUB_BASE_URL",
	"github.client_id":      "GITHUB_CLIENT_ID",
	"github.client_secret":  "GITHUB_CLIENT_SECRET",
	"github.token":          "GITHUB_TOKEN",
	"github.user_agent":     "GITHUB_USER_AGENT",
	"github.timeout":        "GITHUB_TIMEOUT",
	"github.max_concurrent": "GITHUB_MAX_CONCURRENT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.db", "devconnect")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.prefix", "devconnect:")
	v.SetDefault("auth.token_lifespan", 360000*time.Second)
	v.SetDefault("auth.issuer", "devconnect-api")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.user_agent", "devconnect")
	v.SetDefault("github.max_concurrent", 8)
}

// Load reads .env and config.yaml from the given directories (the working
// directory when none is given), then applies environment overrides.
func Load(paths ...string) (Config, error) {
	var cfg Config
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, p := range paths {
		_ = godotenv.Load(strings.TrimRight(p, "/") + "/.env")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Mongo.URI == "":
		return errors.New("mongo.uri (MONGO_URI) is not set")
	case c.Auth.JWTSecret == "":
		return errors.New("auth.jwt_secret (JWT_SECRET) is not set")
	}
	return nil
}
