package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment keys read from the process environment or <home>/.env.
const (
	EnvLogLevel    = "ZEARCH_LOG_LEVEL"
	EnvFileManager = "ZEARCH_FILE_MANAGER"
)

// DotEnvPath returns <home>/.env.
func DotEnvPath(home string) string {
	return filepath.Join(home, ".env")
}

// LoadDotEnv reads <home>/.env and returns key/value pairs.
//
// Parsing rules:
// - Lines starting with '#' are ignored.
// - Empty lines are ignored.
// - Lines must be of form KEY=VALUE.
// - Whitespace around KEY is trimmed.
// - VALUE is taken as-is (no quote parsing).
func LoadDotEnv(home string) (map[string]string, error) {
	p := DotEnvPath(home)

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot open dotenv file %s: %w", p, err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		k := strings.TrimSpace(line[:i])
		v := line[i+1:]
		if k == "" {
			continue
		}
		out[k] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return out, nil
}

// Lookup returns key from the process environment, falling back to
// <home>/.env.
func Lookup(home, key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	env, err := LoadDotEnv(home)
	if err != nil {
		return ""
	}
	return env[key]
}
