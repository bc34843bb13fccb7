package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// New parses the environment into a T. Dotenv files listed in ENV_FILE
// (comma separated, default ".env") are loaded first; missing files are
// skipped and variables already set win.
func New[T any]() (T, error) {
	var cfg T
	if err := loadEnvFiles(); err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func loadEnvFiles() error {
	files := defaultEnvFile
	if v := os.Getenv("ENV_FILE"); v != "" {
		files = v
	}

	for _, f := range strings.Split(files, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
