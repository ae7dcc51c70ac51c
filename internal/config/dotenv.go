package config

import (
	"os"
	"strings"
)

// LoadDotenv applies KEY=VALUE pairs from path to the process
// environment. Variables already present win, matching the usual dotenv
// startup behavior. A missing file is not an error.
func LoadDotenv(path string) error {
	return applyDotenv(path, false)
}

// OverloadDotenv is LoadDotenv with file values taking precedence. Used
// on reload so edits to the file actually land.
func OverloadDotenv(path string) error {
	return applyDotenv(path, true)
}

func applyDotenv(path string, override bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists && !override {
			continue
		}
		os.Setenv(key, value)
	}
	return nil
}
