package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"csmoney-watcher/models"
)

// Config holds all application configuration loaded from environment variables
// plus the search-spec list loaded from the specs file.
type Config struct {
	FixerAPIKey string
	WebhookURL  string
	DataDir     string
	SpecsFile   string

	FetchTimeoutSec int
	UseBrowser      bool
	WatchCron       string
	Debug           bool

	Specs []models.SearchSpec
}

// Load reads the .env file, resolves settings from the environment and loads
// the configured search specs. A missing credential, endpoint or spec list is
// a fatal startup error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		FixerAPIKey: os.Getenv("FIXER_API_KEY"),
		WebhookURL:  os.Getenv("WEBHOOK_URL"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		SpecsFile:   getEnv("SPECS_FILE", "./specs.json"),

		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 30),
		UseBrowser:      getEnvBool("USE_BROWSER", true),
		WatchCron:       getEnv("WATCH_CRON", "@every 5m"),
		Debug:           getEnvBool("DEBUG", false),
	}

	if cfg.FixerAPIKey == "" {
		return nil, fmt.Errorf("config: FIXER_API_KEY is required")
	}
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("config: WEBHOOK_URL is required")
	}

	specs, err := LoadSpecs(cfg.SpecsFile)
	if err != nil {
		return nil, err
	}
	cfg.Specs = specs

	return cfg, nil
}

// LoadSpecs reads the JSON array of search specs from path.
func LoadSpecs(path string) ([]models.SearchSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read specs file %q: %w", path, err)
	}

	var specs []models.SearchSpec
	if err := json.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("config: invalid specs json in %q: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("config: specs file %q lists no searches", path)
	}
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("config: spec %d in %q has no name", i, path)
		}
	}
	return specs, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(val) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return fallback
}
