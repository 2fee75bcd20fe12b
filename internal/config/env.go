package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv reads KEY=VALUE pairs from the given files (default ".env") into the
// process environment. Variables that are already set are left alone. A missing
// file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &Error{Op: "load env", Err: err}
		}
	}
	return nil
}
