package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
)

// MasterKey is a 256-bit key that seals keychain entries.
//
// The ID is written next to every sealed entry, so a key that has been rotated out of the
// active slot can still open the entries it produced.
type MasterKey struct {
	ID  string
	Key []byte
}

// MasterKeyChain holds every master key known to the process with one designated as active.
//
// New entries are sealed with the active key. Entries sealed with any other key in the chain
// remain readable, which is what makes rotation possible without a migration.
//
// The chain is safe for concurrent use.
type MasterKeyChain struct {
	activeID string
	keys     sync.Map
}

// NewMasterKeyChain returns an empty chain whose active key will be activeID.
func NewMasterKeyChain(activeID string) *MasterKeyChain {
	return &MasterKeyChain{activeID: activeID}
}

// Add stores a copy of key under id. The caller keeps ownership of key and may zero it.
func (m *MasterKeyChain) Add(id string, key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: master key %s must be %d bytes, got %d", ErrInvalidKeySize, id, KeySize, len(key))
	}
	material := make([]byte, KeySize)
	copy(material, key)
	m.keys.Store(id, &MasterKey{ID: id, Key: material})
	return nil
}

// ActiveMasterKeyID returns the ID of the key used for new entries.
func (m *MasterKeyChain) ActiveMasterKeyID() string {
	return m.activeID
}

// Active returns the active master key.
func (m *MasterKeyChain) Active() (*MasterKey, bool) {
	return m.Get(m.activeID)
}

// Get retrieves a master key by ID.
func (m *MasterKeyChain) Get(id string) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(id); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Close zeroes every key and empties the chain.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(_, value any) bool {
		Zero(value.(*MasterKey).Key)
		return true
	})
	m.activeID = ""
	m.keys.Clear()
}

// UnwrapFunc turns the decoded bytes of a MASTER_KEYS entry into raw key material, for
// example by decrypting them with a KMS keeper.
type UnwrapFunc func(id string, material []byte) ([]byte, error)

// ParseMasterKeyChain builds a chain from the MASTER_KEYS / ACTIVE_MASTER_KEY_ID format:
//
//	MASTER_KEYS="key1:<base64>,key2:<base64>"
//	ACTIVE_MASTER_KEY_ID="key2"
//
// When unwrap is nil the decoded base64 is used as the key itself. Intermediate buffers are
// zeroed, and on any error the partially built chain is closed.
func ParseMasterKeyChain(raw, activeID string, unwrap UnwrapFunc) (*MasterKeyChain, error) {
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}
	if activeID == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := NewMasterKeyChain(activeID)

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 || p[0] == "" {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]

		decoded, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}

		key := decoded
		if unwrap != nil {
			key, err = unwrap(id, decoded)
			Zero(decoded)
			if err != nil {
				mkc.Close()
				return nil, err
			}
		}

		err = mkc.Add(id, key)
		Zero(key)
		if err != nil {
			mkc.Close()
			return nil, err
		}
	}

	if _, ok := mkc.Active(); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, activeID)
	}

	return mkc, nil
}

// Zero overwrites b in place. Key material is cleared with it once it is no longer needed.
func Zero(b []byte) {
	clear(b)
}
