// Package storage provides the durable key-value backends the client uses to keep
// its session between runs.
package storage

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/storerate/storerate/internal/config"
)

const configDirName = "storerate"

// ErrNotFound is returned by Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// KeyValue is a durable string map. Delete of a missing key is not an error.
type KeyValue interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Open returns the backend selected by cfg. apiBaseURL scopes keyring entries so
// sessions against different API hosts do not collide.
func Open(cfg config.SessionConfig, apiBaseURL string) (KeyValue, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	case "keyring":
		ns := cfg.Namespace
		if ns == "" {
			ns = namespaceFor(apiBaseURL)
		}
		return NewKeyring(ns), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			p, err := DefaultPath("session.sqlite")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLite(path)
	case "file", "":
		path := cfg.Path
		if path == "" {
			p, err := DefaultPath("session.json")
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFile(path), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// DefaultPath returns ~/.config/storerate/<name>
func DefaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, name), nil
}

func namespaceFor(apiBaseURL string) string {
	u, err := url.Parse(apiBaseURL)
	if err != nil || u.Host == "" {
		return "default"
	}
	return u.Host
}
