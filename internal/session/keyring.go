// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"path/filepath"

	"github.com/99designs/keyring"

	"wosool/insight/internal/xdg"
)

// serviceName namespaces our entries in the OS credential store.
const serviceName = "insight"

const keyAccessToken = "auth_access_token"

// KeyringStore persists the access token in the OS keychain, falling
// back to an encrypted file under the state directory on platforms
// without a native credential store.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyring opens the platform credential store.
func OpenKeyring() (*KeyringStore, error) {
	stateDir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.SecretServiceBackend,
			keyring.FileBackend,
		},
		FileDir: filepath.Join(stateDir, "keyring"),
		FilePasswordFunc: func(string) (string, error) {
			return serviceName, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &KeyringStore{ring: ring}, nil
}

func (k *KeyringStore) SaveToken(token string) error {
	return k.ring.Set(keyring.Item{Key: keyAccessToken, Data: []byte(token)})
}

func (k *KeyringStore) LoadToken() (string, error) {
	it, err := k.ring.Get(keyAccessToken)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (k *KeyringStore) ClearToken() error {
	return k.ring.Remove(keyAccessToken)
}
