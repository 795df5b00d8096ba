package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage drivers the service knows how to open.
const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
)

// Config aggregates every configuration option of the service.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Words   WordsConfig
	Game    GameConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	game, err := loadGameConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Storage: storage,
		Words:   WordsConfig{Dir: getEnvOrDefault("WORDS_DIR", "data")},
		Game:    game,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// StorageConfig selects and parameterizes the durable session store.
type StorageConfig struct {
	Driver string // file or sqlite
	Dir    string // session directory for the file driver
	DSN    string // database path for the sqlite driver
}

func loadStorageConfig() (StorageConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageDriverFile))
	switch driver {
	case StorageDriverFile, StorageDriverSQLite:
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_DRIVER value %q: want %s or %s", driver, StorageDriverFile, StorageDriverSQLite)
	}

	return StorageConfig{
		Driver: driver,
		Dir:    getEnvOrDefault("STORAGE_DIR", "sessions"),
		DSN:    getEnvOrDefault("STORAGE_DSN", "sessions.db"),
	}, nil
}

// WordsConfig locates the character/context word lists.
type WordsConfig struct {
	Dir string
}

// GameConfig tunes the game engine.
type GameConfig struct {
	IDLength int   // length of generated session codes
	Seed     int64 // assignment RNG seed, 0 means time-based
}

func loadGameConfig() (GameConfig, error) {
	idLength, err := parseOptionalIntEnv("GAME_ID_LENGTH")
	if err != nil {
		return GameConfig{}, err
	}
	length := 6
	if idLength != nil {
		if *idLength < 4 {
			return GameConfig{}, fmt.Errorf("invalid GAME_ID_LENGTH value %d: want at least 4", *idLength)
		}
		length = *idLength
	}

	seed, err := parseOptionalInt64Env("GAME_SEED")
	if err != nil {
		return GameConfig{}, err
	}
	var seedValue int64
	if seed != nil {
		seedValue = *seed
	}

	return GameConfig{IDLength: length, Seed: seedValue}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalInt64Env(key string) (*int64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
