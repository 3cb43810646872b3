package main

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// KeyRecord is one configured signing key. The secret authenticates
// callers and must never appear in logs or responses; the mnemonic and
// passphrase are the seed material handed to the wallet layer.
type KeyRecord struct {
	ID         string
	Secret     []byte
	Mnemonic   string
	Passphrase string
	// AllowedIPs is the caller allow-list. Empty means unrestricted.
	AllowedIPs []string
}

// keyEntry is the YAML form of a key record:
//
//	alice:
//	  secret: s3cr3t
//	  mnemonic: abandon abandon ... about
//	  passphrase: optional
//	  ip: 10.0.0.1        # or a list of addresses
type keyEntry struct {
	Secret     string     `yaml:"secret" validate:"required"`
	Mnemonic   string     `yaml:"mnemonic" validate:"required"`
	Passphrase string     `yaml:"passphrase"`
	IP         stringList `yaml:"ip"`
}

// stringList accepts either a single scalar or a sequence of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*l = stringList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*l = stringList(many)
		return nil
	default:
		return fmt.Errorf("line %d: ip must be a string or a list of strings", value.Line)
	}
}

// Keychain is the full set of configured signing keys. It is built once
// from the configuration source and never mutated afterwards, so
// concurrent reads need no locking.
type Keychain struct {
	records map[string]KeyRecord
}

// ParseKeychain parses and validates a YAML mapping of key id to key
// entry. Schema failures are ConfigErrors: they are deployment faults,
// surfaced as 500-class responses.
func ParseKeychain(blob []byte) (*Keychain, error) {
	var entries map[string]keyEntry
	if err := yaml.Unmarshal(blob, &entries); err != nil {
		return nil, &ConfigError{Err: err}
	}

	validate := validator.New()
	records := make(map[string]KeyRecord, len(entries))
	for id, entry := range entries {
		if id == "" {
			return nil, &ConfigError{Err: fmt.Errorf("key id must not be empty")}
		}
		if err := validate.Struct(entry); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("key %q: %w", id, err)}
		}

		records[id] = KeyRecord{
			ID:         id,
			Secret:     []byte(entry.Secret),
			Mnemonic:   entry.Mnemonic,
			Passphrase: entry.Passphrase,
			AllowedIPs: entry.IP,
		}
	}

	return &Keychain{records: records}, nil
}

// NewKeychain builds a keychain from already-validated records. The
// database source uses it after mapping rows to records.
func NewKeychain(records []KeyRecord) *Keychain {
	byID := make(map[string]KeyRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	return &Keychain{records: byID}
}

// Get returns the record for a key id, case-sensitively.
func (kc *Keychain) Get(id string) (KeyRecord, bool) {
	record, ok := kc.records[id]
	return record, ok
}

// Count returns the number of configured keys.
func (kc *Keychain) Count() int { return len(kc.records) }

// IDs returns the configured key ids in sorted order.
func (kc *Keychain) IDs() []string {
	ids := make([]string, 0, len(kc.records))
	for id := range kc.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
