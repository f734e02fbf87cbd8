package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	LogLevel                     logging.Level
	CORSAllowedOrigins           []string
	SwaggerEnabled               bool
	SimGridBaseURL               string
	SimGridAPIKey                string
	SimGridTimeout               time.Duration
	SimGridListLimit             int
	SimGridScrapeRate            float64
	SimGridScrapeBurst           int
	SimGridCircuitEnabled        bool
	SimGridCircuitFailureCount   int
	SimGridCircuitOpenTimeout    time.Duration
	SimGridCircuitHalfOpenMaxReq int
	StandingsCacheTTL            time.Duration
	ArchiveEnabled               bool
	DBURL                        string
	DBDisablePreparedBinary      bool
	WarmupChampionshipIDs        []int64
	WarmupInterval               time.Duration
	WarmupWorkers                int
	UptraceEnabled               bool
	UptraceDSN                   string
	UptraceLogsEnabled           bool
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	readTimeout, err := getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	// Standings may need an API call plus a page scrape, each up to SIMGRID_TIMEOUT.
	writeTimeout, err := getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "75s")
	if err != nil {
		return Config{}, err
	}

	simGridBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("SIMGRID_BASE_URL", "https://www.thesimgrid.com")), "/")
	if !strings.HasPrefix(simGridBaseURL, "http://") && !strings.HasPrefix(simGridBaseURL, "https://") {
		return Config{}, fmt.Errorf("SIMGRID_BASE_URL must start with http:// or https://")
	}
	simGridTimeout, err := getEnvAsPositiveDuration("SIMGRID_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	simGridListLimit, err := getEnvAsInt("SIMGRID_LIST_LIMIT", 200)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIMGRID_LIST_LIMIT: %w", err)
	}
	if simGridListLimit < 1 {
		return Config{}, fmt.Errorf("SIMGRID_LIST_LIMIT must be >= 1")
	}
	simGridScrapeRate, err := strconv.ParseFloat(getEnv("SIMGRID_SCRAPE_RATE", "2"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIMGRID_SCRAPE_RATE: %w", err)
	}
	if simGridScrapeRate <= 0 {
		return Config{}, fmt.Errorf("SIMGRID_SCRAPE_RATE must be > 0")
	}
	simGridScrapeBurst, err := getEnvAsInt("SIMGRID_SCRAPE_BURST", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIMGRID_SCRAPE_BURST: %w", err)
	}
	if simGridScrapeBurst < 1 {
		return Config{}, fmt.Errorf("SIMGRID_SCRAPE_BURST must be >= 1")
	}

	simGridCircuitEnabled, err := strconv.ParseBool(getEnv("SIMGRID_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SIMGRID_CIRCUIT_ENABLED: %w", err)
	}
	simGridCircuitFailureCount, err := getEnvAsInt("SIMGRID_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIMGRID_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if simGridCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SIMGRID_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	simGridCircuitOpenTimeout, err := getEnvAsPositiveDuration("SIMGRID_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	simGridCircuitHalfOpenMaxReq, err := getEnvAsInt("SIMGRID_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIMGRID_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if simGridCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SIMGRID_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	standingsCacheTTL, err := getEnvAsPositiveDuration("STANDINGS_CACHE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}

	archiveEnabled, err := strconv.ParseBool(getEnv("ARCHIVE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARCHIVE_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if archiveEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when ARCHIVE_ENABLED=true")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	warmupIDs, err := parseIDList(getEnv("WARMUP_CHAMPIONSHIP_IDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse WARMUP_CHAMPIONSHIP_IDS: %w", err)
	}
	warmupInterval, err := getEnvAsPositiveDuration("WARMUP_INTERVAL", "5m")
	if err != nil {
		return Config{}, err
	}
	if len(warmupIDs) > 0 && warmupInterval < standingsCacheTTL {
		return Config{}, fmt.Errorf("WARMUP_INTERVAL must be >= STANDINGS_CACHE_TTL")
	}
	warmupWorkers, err := getEnvAsInt("WARMUP_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WARMUP_WORKERS: %w", err)
	}
	if warmupWorkers < 1 {
		return Config{}, fmt.Errorf("WARMUP_WORKERS must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "simgrid-proxy"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                  readTimeout,
		WriteTimeout:                 writeTimeout,
		LogLevel:                     logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:               swaggerEnabled,
		SimGridBaseURL:               simGridBaseURL,
		SimGridAPIKey:                strings.TrimSpace(getEnv("SIMGRID_API_KEY", "")),
		SimGridTimeout:               simGridTimeout,
		SimGridListLimit:             simGridListLimit,
		SimGridScrapeRate:            simGridScrapeRate,
		SimGridScrapeBurst:           simGridScrapeBurst,
		SimGridCircuitEnabled:        simGridCircuitEnabled,
		SimGridCircuitFailureCount:   simGridCircuitFailureCount,
		SimGridCircuitOpenTimeout:    simGridCircuitOpenTimeout,
		SimGridCircuitHalfOpenMaxReq: simGridCircuitHalfOpenMaxReq,
		StandingsCacheTTL:            standingsCacheTTL,
		ArchiveEnabled:               archiveEnabled,
		DBURL:                        dbURL,
		DBDisablePreparedBinary:      dbDisablePreparedBinary,
		WarmupChampionshipIDs:        warmupIDs,
		WarmupInterval:               warmupInterval,
		WarmupWorkers:                warmupWorkers,
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		UptraceLogsEnabled:           uptraceLogsEnabled,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIDList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	out := make([]int64, 0, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %d", value)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
