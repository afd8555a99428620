package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application defaults loaded from environment variables.
// Nothing here is required: every field has a usable fallback and the form
// lets the user override all of them.
type Config struct {
	// DirectoryServer and DirectoryDatabase locate the company directory
	// used by the database search helper.
	DirectoryServer   string
	DirectoryDatabase string

	// DefaultServer and DefaultDatabase pre-fill the connection fields.
	DefaultServer   string
	DefaultDatabase string

	// OutputFolder pre-fills the export destination.
	OutputFolder string
}

// Load reads an optional .env file and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return &Config{
		DirectoryServer:   getEnv("TDS_DIRECTORY_SERVER", "10.1.7.5"),
		DirectoryDatabase: getEnv("TDS_DIRECTORY_DATABASE", "AbsWebSys"),
		DefaultServer:     getEnv("TDS_SERVER", "10.1.18.7"),
		DefaultDatabase:   getEnv("TDS_DATABASE", ""),
		OutputFolder:      getEnv("TDS_OUTPUT_FOLDER", cwd),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
