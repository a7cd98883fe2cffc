package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFile loads the first dotenv file found into the process environment.
// Variables already present in the environment win. It returns the path that
// was loaded, or "" when no file exists.
func loadEnvFile() (string, error) {
	path := findEnvFile()
	if path == "" {
		return "", nil
	}
	if err := godotenv.Load(path); err != nil {
		return path, &ValidationError{msg: fmt.Sprintf("Cannot read %s: %v", path, err)}
	}
	return path, nil
}

// findEnvFile honours CLOCKIFY_ENV_FILE, then walks up from the executable's
// directory and finally from the working directory looking for ".env".
func findEnvFile() string {
	if p := os.Getenv("CLOCKIFY_ENV_FILE"); p != "" {
		return p
	}
	var starts []string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		starts = append(starts, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		starts = append(starts, wd)
	}
	for _, dir := range starts {
		if p := FindUpward(dir, ".env"); p != "" {
			return p
		}
	}
	return ""
}

// FindUpward returns the path of name in dir or its closest ancestor that
// contains it, or "" if none does.
func FindUpward(dir, name string) string {
	for {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
