package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the client layer.
type Config struct {
	Debug   bool
	Env     string // DEV (local; default), TEST, QA, PROD
	AppName string
	Build   string

	API struct {
		BaseURL        string
		RequestTimeout time.Duration
	}

	// CredentialsFile is where the persisted session (token + user) lives.
	CredentialsFile string

	Rollbar struct {
		Token string
	}
}

// NewConfig loads the configuration from defaults, an optional
// config/.env.<env> file and the environment (prefixed with the ENV name).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "SmartDataCollection")
	conf.SetDefault("build", "dev")
	conf.SetDefault("apiBaseUrl", "http://localhost:8000/v1")
	conf.SetDefault("apiRequestTimeout", 30*time.Second)
	conf.SetDefault("credentialsFile", defaultCredentialsFile())
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	cfg := &Config{
		Debug:           conf.GetBool("debug"),
		Env:             env,
		AppName:         conf.GetString("appName"),
		Build:           conf.GetString("build"),
		CredentialsFile: conf.GetString("credentialsFile"),
	}
	cfg.API.BaseURL = conf.GetString("apiBaseUrl")
	cfg.API.RequestTimeout = conf.GetDuration("apiRequestTimeout")
	cfg.Rollbar.Token = conf.GetString("rollbarToken")
	return cfg
}

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".datacollect-session.json"
	}
	return filepath.Join(dir, "datacollect", "session.json")
}
