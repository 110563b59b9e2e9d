// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

const MaxPlayerNameLen = 24

type PlayerID string

type Player struct {
	ID     PlayerID `json:"id"`
	Name   string   `json:"name"`
	IsHost bool     `json:"isHost"`
}

// NormalizeName trims the display name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}

// NewPlayer is a tiny helper to avoid ad-hoc struct literals in the registry.
func NewPlayer(id PlayerID, name string, host bool) (*Player, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return &Player{ID: id, Name: n, IsHost: host}, nil
}
