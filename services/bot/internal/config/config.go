package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPath is the default location of the YAML config.
const ConfigPath = "config.yaml"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Token                string   `yaml:"token"`
	LogLevel             string   `yaml:"logLevel"`
	LogFormat            string   `yaml:"logFormat"`
	StoreDriver          string   `yaml:"storeDriver"`
	DatabaseURL          string   `yaml:"databaseURL"`
	RedisAddr            string   `yaml:"redisAddr"`
	RedisPassword        string   `yaml:"redisPassword"`
	AdminIDs             []int64  `yaml:"adminIDs"`
	ResumeAdminGroupID   string   `yaml:"resumeAdminGroupID"`
	VacancyAdminGroupID  string   `yaml:"vacancyAdminGroupID"`
	QuestionAdminGroupID string   `yaml:"questionAdminGroupID"`
	MainChannel          string   `yaml:"mainChannel"`
	ResumeDir            string   `yaml:"resumeDir"`
	MaxFileSize          int64    `yaml:"maxFileSize"`
	AllowedFileFormats   []string `yaml:"allowedFileFormats"`
	FileCleanupHours     int      `yaml:"fileCleanupHours"`
	CleanupIntervalHours int      `yaml:"cleanupIntervalHours"`
	OrphanGraceMinutes   int      `yaml:"orphanGraceMinutes"`
	SessionTTLMinutes    int      `yaml:"sessionTTLMinutes"`
	RateLimitPerMinute   int      `yaml:"rateLimitPerMinute"`
	SendPerSecond        int      `yaml:"sendPerSecond"`
	MaxAdsPerUser        int      `yaml:"maxAdsPerUser"`
	BrowseLimit          int      `yaml:"browseLimit"`
	QueueStream          string   `yaml:"queueStream"`
	QueueGroup           string   `yaml:"queueGroup"`
	QueueConcurrency     int      `yaml:"queueConcurrency"`
	QueueMaxRetries      int      `yaml:"queueMaxRetries"`
	MinioEndpoint        string   `yaml:"minioEndpoint"`
	MinioAccessKey       string   `yaml:"minioAccessKey"`
	MinioSecretKey       string   `yaml:"minioSecretKey"`
	MinioBucket          string   `yaml:"minioBucket"`
	MinioUseSSL          bool     `yaml:"minioUseSSL"`
}

func defaults() FileConfig {
	return FileConfig{
		LogLevel:             "info",
		LogFormat:            "json",
		StoreDriver:          StoreDriverPostgres,
		ResumeDir:            "files/resumes/",
		MaxFileSize:          10 * 1024 * 1024,
		AllowedFileFormats:   []string{".pdf", ".doc", ".docx", ".txt"},
		FileCleanupHours:     24,
		CleanupIntervalHours: 6,
		OrphanGraceMinutes:   30,
		SessionTTLMinutes:    1440,
		RateLimitPerMinute:   30,
		SendPerSecond:        25,
		MaxAdsPerUser:        10,
		BrowseLimit:          20,
		QueueStream:          "adsbot:jobs",
		QueueGroup:           "adsbot",
		QueueConcurrency:     2,
		QueueMaxRetries:      3,
	}
}

// Load reads config from path (defaults to config.yaml). A missing file is
// allowed when the environment supplies the required values.
func Load(path string) (FileConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "err", err)
	}
	cfg := defaults()
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.AllowedFileFormats = normalizeFormats(cfg.AllowedFileFormats)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Override with environment variables
func applyEnv(cfg *FileConfig) error {
	if v := os.Getenv("TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.StoreDriver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("config: ADMIN_IDS: %w", err)
		}
		cfg.AdminIDs = ids
	}
	if v := os.Getenv("RESUME_ADMIN_GROUP_ID"); v != "" {
		cfg.ResumeAdminGroupID = v
	}
	if v := os.Getenv("VACANCY_ADMIN_GROUP_ID"); v != "" {
		cfg.VacancyAdminGroupID = v
	}
	if v := os.Getenv("QUESTION_ADMIN_GROUP_ID"); v != "" {
		cfg.QuestionAdminGroupID = v
	}
	if v := os.Getenv("MAIN_CHANNEL_USERNAME"); v != "" {
		cfg.MainChannel = v
	}
	if v := os.Getenv("RESUME_FOLDER"); v != "" {
		cfg.ResumeDir = v
	}
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxFileSize = n
		}
	}
	if v := os.Getenv("ALLOWED_FILE_FORMATS"); v != "" {
		cfg.AllowedFileFormats = splitCSV(v)
	}
	if v := os.Getenv("FILE_CLEANUP_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FileCleanupHours = n
		}
	}
	if v := os.Getenv("CLEANUP_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CleanupIntervalHours = n
		}
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		cfg.MinioBucket = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.MinioUseSSL = enabled
		}
	}
	return nil
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return errors.New("config: token is required (set in config.yaml or TOKEN)")
	}
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("config: storeDriver must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}
	if len(cfg.AdminIDs) == 0 {
		return errors.New("config: adminIDs is required (set in config.yaml or ADMIN_IDS)")
	}
	if strings.TrimSpace(cfg.MainChannel) == "" {
		return errors.New("config: mainChannel is required (set in config.yaml or MAIN_CHANNEL_USERNAME)")
	}
	if cfg.FileCleanupHours <= 0 {
		return errors.New("config: fileCleanupHours must be > 0")
	}
	if cfg.CleanupIntervalHours <= 0 {
		return errors.New("config: cleanupIntervalHours must be > 0")
	}
	if cfg.MaxFileSize <= 0 {
		return errors.New("config: maxFileSize must be > 0")
	}
	if len(cfg.AllowedFileFormats) == 0 {
		return errors.New("config: allowedFileFormats must not be empty")
	}
	if cfg.MinioEndpoint != "" && (cfg.MinioBucket == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "") {
		return errors.New("config: minio requires bucket, access key and secret key when minioEndpoint is set")
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDs(v string) ([]int64, error) {
	parts := splitCSV(v)
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// normalizeFormats lowercases extensions and adds the leading dot.
func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, ".") {
			f = "." + f
		}
		out = append(out, f)
	}
	return out
}
