package config

import (
	"log"
	"os"
	"strconv"
)

// Environment variable names recognized by both the CLI and the server.
const (
	EnvDatabaseURL  = "METAPROC_DB_URL"
	EnvSourceBucket = "METAPROC_SOURCE_BUCKET"
	EnvForceUpdate  = "METAPROC_FORCE_UPDATE"
	EnvPort         = "METAPROC_PORT"
)

const defaultPort = 8080

type Config struct {
	// DatabaseURL is the optional metadata sink; when unset the CLI falls
	// back to formatted output.
	DatabaseURL string

	// SourceBucket is the object-storage bucket images are downloaded from
	// when processing keys rather than local files.
	SourceBucket string

	// ForceUpdate re-processes keys whose file_path already exists.
	ForceUpdate bool

	// Port for the event-handler HTTP server.
	Port int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBool(envVar string) bool {
	switch getEnvOrDefault(envVar, "") {
	case "1", "true", "TRUE", "True", "yes":
		return true
	}
	return false
}

// LoadConfig populates a Config from the environment.
func LoadConfig() Config {
	return Config{
		DatabaseURL:  getEnvOrDefault(EnvDatabaseURL, ""),
		SourceBucket: getEnvOrDefault(EnvSourceBucket, ""),
		ForceUpdate:  getEnvBool(EnvForceUpdate),
		Port:         getEnvIntOrDefault(EnvPort, defaultPort),
	}
}
