package shared

import (
	"encoding/json"
	"github.com/tailscale/hujson"
	"log"
	"os"
)

const (
	configVarName  = "CONFIG"                // If set, will load config.json from this path and not from devConfigPath
	secretsVarName = "SECRETS"               // If set, will load secrets.json from this path and not from devSecretsPath
	devConfigPath  = "dev/config.dev.jsonc"  // Path to config.json in development environment
	devSecretsPath = "dev/secrets.dev.jsonc" // Path to secrets.json in development environment
)

const (
	defaultActorCacheSize      = 4096
	defaultActorCacheTTLSec    = 600
	defaultDeliveryWorkers     = 4
	defaultDeliveryMaxAttempts = 10
	defaultJobPollIntervalSec  = 5
	defaultProfileKeepDays     = 3
)

type Config struct {
	Secrets             Secrets `json:"-"`
	LogFile             string  `json:"log_file"`
	LogLevel            string  `json:"log_level"`
	ServicePort         uint    `json:"service_port"`
	Host                string  `json:"host"`
	DbFile              string  `json:"db_file"`
	ActorCacheSize      int     `json:"actor_cache_size"`
	ActorCacheTTLSec    int     `json:"actor_cache_ttl_sec"`
	DeliveryWorkers     int     `json:"delivery_workers"`
	DeliveryMaxAttempts int     `json:"delivery_max_attempts"`
	JobPollIntervalSec  int     `json:"job_poll_interval_sec"`
	BlockedDomainsFile  string  `json:"blocked_domains_file"`
	ProfileDir          string  `json:"profile_dir"`
	ProfileKeepDays     int     `json:"profile_keep_days"`
}

type Secrets struct {
	PrivKeyPass string   `json:"privkey_passphrase"`
	ApiKeys     []string `json:"api_keys"`
	MetricsAuth string   `json:"metrics_auth"`
}

func LoadConfig() *Config {

	// Where are our config and secrets files?
	cfgPath := os.Getenv(configVarName)
	if len(cfgPath) == 0 {
		cfgPath = devConfigPath
	}
	secretsPath := os.Getenv(secretsVarName)
	if len(secretsPath) == 0 {
		secretsPath = devSecretsPath
	}

	// Read config file
	var config Config
	mustDeserializeFile(cfgPath, &config)
	// Read secrets member from secrets file
	mustDeserializeFile(secretsPath, &config.Secrets)
	config.ApplyDefaults()
	return &config
}

// ApplyDefaults fills in tuning values left at zero in the config file.
func (cfg *Config) ApplyDefaults() {
	if cfg.ActorCacheSize <= 0 {
		cfg.ActorCacheSize = defaultActorCacheSize
	}
	if cfg.ActorCacheTTLSec <= 0 {
		cfg.ActorCacheTTLSec = defaultActorCacheTTLSec
	}
	if cfg.DeliveryWorkers <= 0 {
		cfg.DeliveryWorkers = defaultDeliveryWorkers
	}
	if cfg.DeliveryMaxAttempts <= 0 {
		cfg.DeliveryMaxAttempts = defaultDeliveryMaxAttempts
	}
	if cfg.JobPollIntervalSec <= 0 {
		cfg.JobPollIntervalSec = defaultJobPollIntervalSec
	}
	if cfg.ProfileKeepDays <= 0 {
		cfg.ProfileKeepDays = defaultProfileKeepDays
	}
}

func mustDeserializeFile[T any](fileName string, obj *T) {
	var err error
	var cfgJson []byte
	cfgJson, err = os.ReadFile(fileName)
	if err != nil {
		log.Fatal(err)
	}
	if err = DeserializeJSONC(cfgJson, obj); err != nil {
		log.Fatal(err)
	}
}

// DeserializeJSONC parses JSON with comments and trailing commas into obj.
func DeserializeJSONC[T any](data []byte, obj *T) error {
	var err error
	// JSONC => JSON
	if data, err = standardizeJSON(data); err != nil {
		return err
	}
	return json.Unmarshal(data, obj)
}

func standardizeJSON(b []byte) ([]byte, error) {
	ast, err := hujson.Parse(b)
	if err != nil {
		return b, err
	}
	ast.Standardize()
	return ast.Pack(), nil
}
