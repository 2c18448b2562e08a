// Package settings stores phraseup access tokens between runs.
//
// Tokens are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/phraseup/auth.json  (default: ~/.local/share/phraseup/)
//
// The file is a JSON object keyed by Phrase API host, so tokens for the EU
// and US data centers can live side by side:
//
//	{
//	  "https://api.phraseapp.com": {"token": "...", "saved": 1718000000}
//	}
//
// File permissions are 0600 (owner read/write only).
//
// Lookup order for the access token:
//  1. --access-token flag (highest priority)
//  2. PHRASE_ACCESS_TOKEN environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dataDirName = "phraseup"
	fileName    = "auth.json"
)

// Entry is the stored credential for one API host.
type Entry struct {
	Token string `json:"token"`
	Saved int64  `json:"saved,omitempty"` // Unix timestamp
}

// Store holds all credentials, keyed by normalized API host.
type Store map[string]*Entry

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir respects $XDG_DATA_HOME and falls back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// hostKey normalizes an API base URL into a store key.
func hostKey(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Token helpers
// ---------------------------------------------------------------------------

// Token returns the stored token for an API host, or "" if none.
func Token(baseURL string) string {
	e := Load()[hostKey(baseURL)]
	if e == nil {
		return ""
	}
	return e.Token
}

// SetToken stores the token for an API host (upsert).
func SetToken(baseURL, token string) error {
	store := Load()
	store[hostKey(baseURL)] = &Entry{Token: token, Saved: time.Now().Unix()}
	return Save(store)
}

// Remove deletes the token for an API host. Removing a missing entry is a
// no-op.
func Remove(baseURL string) error {
	store := Load()
	key := hostKey(baseURL)
	if _, ok := store[key]; !ok {
		return nil
	}
	delete(store, key)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a token for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
