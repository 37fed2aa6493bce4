package storage

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// ServiceName is the identifier used for all QuoteDash credentials in
	// the system keyring.
	ServiceName = "quotedash"

	// APITokenKey is the credential key under which the quotes endpoint
	// bearer token is stored.
	APITokenKey = "api-token"
)

// CredentialStore defines the interface for secure credential storage.
type CredentialStore interface {
	// Set stores a credential securely
	Set(key string, value string) error
	// Get retrieves a credential
	Get(key string) (string, error)
	// Delete removes a credential
	Delete(key string) error
}

// KeyringCredentialStore implements CredentialStore using the system keyring.
// - macOS: Uses Keychain
// - Windows: Uses Credential Manager
// - Linux: Uses Secret Service (GNOME Keyring, KWallet)
type KeyringCredentialStore struct {
	service string
}

// NewKeyringCredentialStore creates a new keyring-based credential store.
func NewKeyringCredentialStore() *KeyringCredentialStore {
	return &KeyringCredentialStore{
		service: ServiceName,
	}
}

// Set stores a credential securely in the system keyring.
func (s *KeyringCredentialStore) Set(key string, value string) error {
	if key == "" {
		return fmt.Errorf("credential key cannot be empty")
	}

	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return nil
}

// Get retrieves a credential from the system keyring.
func (s *KeyringCredentialStore) Get(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("credential key cannot be empty")
	}

	value, err := keyring.Get(s.service, key)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("credential not found: %s", key)
		}
		return "", fmt.Errorf("failed to retrieve credential: %w", err)
	}

	return value, nil
}

// Delete removes a credential from the system keyring.
func (s *KeyringCredentialStore) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("credential key cannot be empty")
	}

	if err := keyring.Delete(s.service, key); err != nil {
		if err == keyring.ErrNotFound {
			return fmt.Errorf("credential not found: %s", key)
		}
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	return nil
}

// LoadAPIToken returns the stored quotes endpoint token, or "" when none is
// configured. Lookup errors are treated as absence; the token is optional.
func LoadAPIToken() string {
	value, err := keyring.Get(ServiceName, APITokenKey)
	if err != nil {
		return ""
	}
	return value
}
