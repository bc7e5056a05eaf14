package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"rosechat/pkg/logger"
	"rosechat/pkg/models"
)

// ErrNotFound is returned when no profile exists under the given name.
var ErrNotFound = errors.New("profile not found")

const profilePrefix = "profile:"

// Store persists user profiles and word inventories in Pebble. It is the
// external collaborator for the chat core: consulted at join time only,
// never from the message or rose paths.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the Pebble database at path.
func Open(path string) (*Store, error) {
	logger.Info("opening_profile_store", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("profile_store_open_failed", "path", path, "error", err)
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	logger.Info("profile_store_closed")
	return err
}

func profileKey(name string) []byte { return []byte(profilePrefix + name) }

// SaveProfile writes the profile, stamping created/updated timestamps.
func (s *Store) SaveProfile(p models.Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name required")
	}
	now := time.Now().UTC().UnixNano()
	if existing, err := s.GetProfile(p.Name); err == nil {
		p.CreatedTS = existing.CreatedTS
	} else {
		p.CreatedTS = now
	}
	p.UpdatedTS = now
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.db.Set(profileKey(p.Name), b, pebble.Sync); err != nil {
		logger.Error("profile_save_failed", "name", p.Name, "error", err)
		return err
	}
	logger.Debug("profile_saved", "name", p.Name, "words", len(p.Inventory))
	return nil
}

// GetProfile loads the profile stored under name.
func (s *Store) GetProfile(name string) (models.Profile, error) {
	var p models.Profile
	v, closer, err := s.db.Get(profileKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return p, ErrNotFound
		}
		return p, err
	}
	defer closer.Close()
	if err := json.Unmarshal(v, &p); err != nil {
		return p, fmt.Errorf("invalid stored profile: %w", err)
	}
	return p, nil
}

// DeleteProfile removes the profile stored under name.
func (s *Store) DeleteProfile(name string) error {
	if _, err := s.GetProfile(name); err != nil {
		return err
	}
	return s.db.Delete(profileKey(name), pebble.Sync)
}

// ListProfiles returns all profiles in key order.
func (s *Store) ListProfiles() ([]models.Profile, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(profilePrefix),
		UpperBound: []byte(profilePrefix + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.Profile
	for iter.First(); iter.Valid(); iter.Next() {
		var p models.Profile
		if err := json.Unmarshal(iter.Value(), &p); err != nil {
			logger.Warn("profile_decode_failed", "key", string(iter.Key()), "error", err)
			continue
		}
		out = append(out, p)
	}
	return out, iter.Error()
}

// SetInventory replaces the profile's inventory wholesale.
func (s *Store) SetInventory(name string, inv models.Inventory) error {
	p, err := s.GetProfile(name)
	if err != nil {
		return err
	}
	p.Inventory = inv
	return s.SaveProfile(p)
}

// Inventory returns the persisted inventory for name. Satisfies the
// gateway's join-time inventory source.
func (s *Store) Inventory(name string) (models.Inventory, error) {
	p, err := s.GetProfile(name)
	if err != nil {
		return nil, err
	}
	return p.Inventory, nil
}

// GrantWords adds words to the profile's inventory, keeping existing
// metadata for words already owned.
func (s *Store) GrantWords(name string, words []string, rarity string) (models.Profile, error) {
	p, err := s.GetProfile(name)
	if err != nil {
		return p, err
	}
	if p.Inventory == nil {
		p.Inventory = models.Inventory{}
	}
	now := time.Now().UTC().UnixNano()
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, owned := p.Inventory[w]; owned {
			continue
		}
		p.Inventory[w] = models.WordMeta{Rarity: rarity, AcquiredTS: now}
	}
	if err := s.SaveProfile(p); err != nil {
		return p, err
	}
	return p, nil
}
