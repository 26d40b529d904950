package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/buntdb"
)

const snapshotPrefix = "snapshot:"

// ErrNoSnapshot is returned when nothing was saved for a network.
var ErrNoSnapshot = errors.New("no snapshot for network")

// Snapshot is a point-in-time copy of what a server negotiated.
type Snapshot struct {
	Network            string            `json:"network"`
	Nick               string            `json:"nick,omitempty"`
	Address            string            `json:"address,omitempty"`
	Version            string            `json:"version,omitempty"`
	CaseMapping        string            `json:"casemapping"`
	NickLengthLimit    int               `json:"nicklen"`
	ChannelLengthLimit int               `json:"chanlen"`
	ChannelPrefixes    string            `json:"chantypes"`
	StatusPrefixes     string            `json:"status_prefixes"`
	WhoX               bool              `json:"whox"`
	ISupport           map[string]string `json:"isupport"`
	MOTD               []string          `json:"motd"`
	SavedAt            time.Time         `json:"saved_at"`
}

// SnapshotStore keeps the latest Snapshot per network in a buntdb file.
type SnapshotStore struct {
	db *buntdb.DB
}

// OpenSnapshotStore opens (or creates) the store at path; ":memory:" keeps
// it in memory.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func snapshotKey(network string) string {
	return snapshotPrefix + strings.ToLower(network)
}

// Save replaces the stored snapshot for snap.Network.
func (s *SnapshotStore) Save(snap Snapshot) error {
	if snap.Network == "" {
		return errors.New("snapshot has no network")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(snapshotKey(snap.Network), string(data), nil)
		return err
	})
}

// Load returns the stored snapshot for network, or ErrNoSnapshot.
func (s *SnapshotStore) Load(network string) (*Snapshot, error) {
	var raw string
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(snapshotKey(network))
		return err
	})
	if err == buntdb.ErrNotFound {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", network, err)
	}
	return &snap, nil
}

// Networks lists every network with a stored snapshot, as saved.
func (s *SnapshotStore) Networks() (networks []string, err error) {
	err = s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(snapshotPrefix+"*", func(key, value string) bool {
			var snap Snapshot
			if json.Unmarshal([]byte(value), &snap) == nil {
				networks = append(networks, snap.Network)
			}
			return true
		})
	})
	return
}

// Delete drops the snapshot for network. Deleting a missing one is not an error.
func (s *SnapshotStore) Delete(network string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(snapshotKey(network))
		return err
	})
	if err == buntdb.ErrNotFound {
		return nil
	}
	return err
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
