package app

import (
	"github.com/dkeye/Doodle/internal/domain"
)

// DirectoryEntry is the session -> room back-reference.
type DirectoryEntry struct {
	PlayerID domain.PlayerID
	Name     string
	IsHost   bool
	RoomCode domain.RoomCode
}

// Directory maps a connected session to its player and room.
// Not safe for concurrent use: the Registry mutates it under its own lock,
// together with the roster.
type Directory struct {
	entries map[domain.PlayerID]*DirectoryEntry
}

func NewDirectory() *Directory {
	return &Directory{entries: make(map[domain.PlayerID]*DirectoryEntry)}
}

func (d *Directory) Put(id domain.PlayerID, e DirectoryEntry) {
	e.PlayerID = id
	d.entries[id] = &e
}

func (d *Directory) Get(id domain.PlayerID) (DirectoryEntry, bool) {
	e, ok := d.entries[id]
	if !ok {
		return DirectoryEntry{}, false
	}
	return *e, true
}

func (d *Directory) Remove(id domain.PlayerID) {
	delete(d.entries, id)
}

func (d *Directory) SetHost(id domain.PlayerID, host bool) {
	if e, ok := d.entries[id]; ok {
		e.IsHost = host
	}
}

func (d *Directory) Len() int { return len(d.entries) }
