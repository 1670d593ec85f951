package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"railway-reservation/internal/model"

	"github.com/joho/godotenv"
)

type Config struct {
	Storage StorageConfig
	Log     LogConfig
}

type StorageConfig struct {
	DataFile string
	MaxSeats int
}

type LogConfig struct {
	Level  string
	Output string
}

var AppConfig *Config

// LoadConfig 先讀取 .env（若存在），再從環境變數組出設定
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	storageConfig, err := GetStorageConfig()
	if err != nil {
		return nil, err
	}

	AppConfig = &Config{
		Storage: storageConfig,
		Log:     GetLogConfig(),
	}

	return AppConfig, nil
}

func LoadTestConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataFile: "tickets_test.dat",
			MaxSeats: 5, // 測試用較少的座位
		},
		Log: LogConfig{
			Level:  "debug",
			Output: "stderr",
		},
	}
}

func GetStorageConfig() (StorageConfig, error) {
	maxSeats, err := strconv.Atoi(getEnv("RESERVATION_MAX_SEATS", strconv.Itoa(model.DefaultMaxSeats)))
	if err != nil {
		return StorageConfig{}, fmt.Errorf("RESERVATION_MAX_SEATS: %w", err)
	}
	if maxSeats <= 0 {
		return StorageConfig{}, fmt.Errorf("RESERVATION_MAX_SEATS must be positive, got %d", maxSeats)
	}

	return StorageConfig{
		DataFile: getEnv("RESERVATION_DATA_FILE", "tickets.dat"),
		MaxSeats: maxSeats,
	}, nil
}

func GetLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Output: getEnv("LOG_OUTPUT", "reservation.log"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
