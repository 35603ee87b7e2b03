package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int
	Mode string // "debug" or "release"

	DBPath         string
	ImageDirectory string
	LogDirectory   string

	ZonesPath   string
	AliasesPath string
	ZoneLocale  string

	ModelPath           string // YOLOv8 ONNX export
	ModelNamesPath      string // one class name per line
	ModelInputSize      int
	FallbackModelPath   string // SSD MobileNet frozen graph
	FallbackConfigPath  string
	ConfidenceThreshold float64 // observations are recorded above this
	NMSThreshold        float64

	RelayConnectTimeout time.Duration
	RelayReadTimeout    time.Duration
	RelayChunkSize      int
	RelayMaxFrameBytes  int
	RelayPassThrough    bool // forward raw frames when annotation fails

	UploadMaxBytes int64
	RecentLimit    int

	RedisAddr     string // empty disables the analysis cache
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 8001),
		Mode:                getEnv("MODE", "debug"),
		DBPath:              getEnv("DB_PATH", filepath.Join(".", "data", "findit.db")),
		ImageDirectory:      getEnv("IMAGE_DIR", filepath.Join(".", "images")),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		ZonesPath:           getEnv("ZONES_PATH", filepath.Join(".", "zones.json")),
		AliasesPath:         getEnv("ALIASES_PATH", filepath.Join(".", "aliases.json")),
		ZoneLocale:          getEnv("ZONE_LOCALE", "zh"),
		ModelPath:           getEnv("MODEL_PATH", filepath.Join(".", "models", "yolov8s-worldv2.onnx")),
		ModelNamesPath:      getEnv("MODEL_NAMES_PATH", filepath.Join(".", "models", "classes.txt")),
		ModelInputSize:      getEnvAsInt("MODEL_INPUT_SIZE", 640),
		FallbackModelPath:   getEnv("FALLBACK_MODEL_PATH", filepath.Join(".", "models", "frozen_inference_graph.pb")),
		FallbackConfigPath:  getEnv("FALLBACK_CONFIG_PATH", filepath.Join(".", "models", "ssd_mobilenet_v1_coco_2017_11_17.pbtxt")),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.15),
		NMSThreshold:        getEnvAsFloat("NMS_THRESHOLD", 0.45),
		RelayConnectTimeout: getEnvAsDuration("RELAY_CONNECT_TIMEOUT", 5*time.Second),
		RelayReadTimeout:    getEnvAsDuration("RELAY_READ_TIMEOUT", 5*time.Second),
		RelayChunkSize:      getEnvAsInt("RELAY_CHUNK_SIZE", 4096),
		RelayMaxFrameBytes:  getEnvAsInt("RELAY_MAX_FRAME_BYTES", 8<<20),
		RelayPassThrough:    getEnvAsBool("RELAY_PASSTHROUGH_ON_ERROR", false),
		UploadMaxBytes:      getEnvAsInt64("UPLOAD_MAX_BYTES", 20<<20),
		RecentLimit:         getEnvAsInt("RECENT_LIMIT", 20),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		RedisTTL:            getEnvAsDuration("REDIS_TTL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("750ms", "5s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
