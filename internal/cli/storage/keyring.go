package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "storerate-cli"

// Keyring stores values in the OS keychain/credential manager. Keys are prefixed
// with a namespace (the API host by default) so each server gets its own session.
type Keyring struct {
	namespace string
}

func NewKeyring(namespace string) *Keyring {
	return &Keyring{namespace: namespace}
}

// keyringKey returns a unique key for storing values per namespace
func (k *Keyring) keyringKey(key string) string {
	return fmt.Sprintf("%s-%s", k.namespace, key)
}

// Get retrieves the value from the OS keychain/credential manager
func (k *Keyring) Get(key string) (string, error) {
	v, err := keyring.Get(keyringService, k.keyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return v, nil
}

// Set persists the value in the OS keychain/credential manager
func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(keyringService, k.keyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

// Delete removes the value from the OS keychain/credential manager
func (k *Keyring) Delete(key string) error {
	if err := keyring.Delete(keyringService, k.keyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
