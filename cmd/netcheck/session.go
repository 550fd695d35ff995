package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// session is the last successful login kept on the device.
type session struct {
	Username        string    `json:"username"`
	Token           string    `json:"token,omitempty"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
}

func saveSession(path string, s session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func loadSession(path string) (session, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return session{}, false, nil
	}
	if err != nil {
		return session{}, false, err
	}
	var s session
	if err := json.Unmarshal(b, &s); err != nil {
		return session{}, false, fmt.Errorf("parse session %s: %w", path, err)
	}
	return s, true, nil
}
