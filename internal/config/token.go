package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultTokenPath returns the default bearer token file path
// (~/.config/gridstash/token). Returns empty if the user config
// directory cannot be determined.
func DefaultTokenPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDir, "token")
}

// ReadTokenFile reads a bearer token from a file.
// The file should contain only the token (whitespace is trimmed).
// Warns if file permissions are too open on Unix systems.
func ReadTokenFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat token file: %w", err)
	}

	// Token files should be readable only by owner (0600 or stricter)
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		fmt.Fprintf(os.Stderr, "Warning: Token file %s has insecure permissions %04o. Consider using 'chmod 600 %s'\n", path, mode, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file is empty")
	}
	return token, nil
}

// WriteTokenFile writes a bearer token to a file with secure
// permissions (0600), creating the parent directory if needed.
func WriteTokenFile(path, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("cannot write empty token")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// RemoveTokenFile deletes the persisted token. A missing file is not
// an error: logout is idempotent.
func RemoveTokenFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// ResolveToken returns a bearer token by checking sources in priority
// order:
//  1. Provided token parameter (e.g. from --token flag)
//  2. Token file at tokenPath (or the default path when empty)
//  3. GRIDSTASH_TOKEN environment variable
//
// Returns empty string if no token is found in any source.
func ResolveToken(token, tokenPath string) string {
	if token != "" {
		return token
	}

	if tokenPath == "" {
		tokenPath = DefaultTokenPath()
	}
	if tokenPath != "" {
		if t, err := ReadTokenFile(tokenPath); err == nil && t != "" {
			return t
		}
	}

	return os.Getenv("GRIDSTASH_TOKEN")
}
