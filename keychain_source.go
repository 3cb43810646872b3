package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KeychainSource loads the keychain from one of the supported backends.
// The gateway loads once at startup; a reload is a restart.
type KeychainSource interface {
	Load(ctx context.Context) (*Keychain, error)
}

// StaticKeychainSource serves a fixed YAML blob. It backs the "static"
// source, which exists for test deployments only.
type StaticKeychainSource struct {
	Blob []byte
}

func (s *StaticKeychainSource) Load(_ context.Context) (*Keychain, error) {
	return ParseKeychain(s.Blob)
}

// FileKeychainSource reads the keychain YAML from disk.
type FileKeychainSource struct {
	Path string
}

func (s *FileKeychainSource) Load(_ context.Context) (*Keychain, error) {
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &ConfigError{Err: errors.Wrap(err, "read keychain file")}
	}
	return ParseKeychain(blob)
}

// EnvKeychainSource reads the keychain YAML from an environment variable.
type EnvKeychainSource struct {
	Variable string
}

func (s *EnvKeychainSource) Load(_ context.Context) (*Keychain, error) {
	blob := os.Getenv(s.Variable)
	if blob == "" {
		return nil, &ConfigError{Err: fmt.Errorf("%s is not set", s.Variable)}
	}
	return ParseKeychain([]byte(blob))
}

// SigningKeyModel is the database row backing one signing key.
type SigningKeyModel struct {
	KeyID      string         `gorm:"column:key_id;primaryKey"`
	Secret     string         `gorm:"column:secret;not null"`
	Mnemonic   string         `gorm:"column:mnemonic;not null"`
	Passphrase string         `gorm:"column:passphrase"`
	AllowedIPs datatypes.JSON `gorm:"column:allowed_ips;type:text"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (SigningKeyModel) TableName() string {
	return "signing_keys"
}

// ToRecord maps a row to a key record, decoding the allow-list column.
func (m *SigningKeyModel) ToRecord() (KeyRecord, error) {
	if m.KeyID == "" {
		return KeyRecord{}, fmt.Errorf("signing key row with empty key_id")
	}
	if m.Secret == "" {
		return KeyRecord{}, fmt.Errorf("key %q: secret must not be empty", m.KeyID)
	}
	if m.Mnemonic == "" {
		return KeyRecord{}, fmt.Errorf("key %q: mnemonic must not be empty", m.KeyID)
	}

	var ips []string
	if len(m.AllowedIPs) > 0 {
		if err := json.Unmarshal(m.AllowedIPs, &ips); err != nil {
			return KeyRecord{}, fmt.Errorf("key %q: invalid allowed_ips: %w", m.KeyID, err)
		}
	}

	return KeyRecord{
		ID:         m.KeyID,
		Secret:     []byte(m.Secret),
		Mnemonic:   m.Mnemonic,
		Passphrase: m.Passphrase,
		AllowedIPs: ips,
	}, nil
}

// DatabaseKeychainSource loads signing keys from the signing_keys table.
type DatabaseKeychainSource struct {
	DB *gorm.DB
}

func (s *DatabaseKeychainSource) Load(ctx context.Context) (*Keychain, error) {
	var rows []SigningKeyModel
	if err := s.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query signing keys")
	}

	records := make([]KeyRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.ToRecord()
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		records = append(records, record)
	}

	return NewKeychain(records), nil
}

// NewKeychainSource picks the keychain backend named by the configuration.
// The static source is restricted to test mode so a production deployment
// can never run on the bundled sample keys.
func NewKeychainSource(config *Config) (KeychainSource, error) {
	switch config.keychainSource {
	case KeychainSourceFile, "":
		return &FileKeychainSource{Path: filepath.Join(config.configDirPath, keychainFileName)}, nil

	case KeychainSourceEnv:
		return &EnvKeychainSource{Variable: keychainEnvVar}, nil

	case KeychainSourceDatabase:
		db, err := ConnectToDB(config.dbConf)
		if err != nil {
			return nil, fmt.Errorf("connect to keychain database: %w", err)
		}
		return &DatabaseKeychainSource{DB: db}, nil

	case KeychainSourceStatic:
		if config.mode != ModeTest {
			return nil, &ConfigError{Err: fmt.Errorf("static keychain source is only available in test mode")}
		}
		return &StaticKeychainSource{Blob: sampleKeychain}, nil

	default:
		return nil, &ConfigError{Err: fmt.Errorf("unknown keychain source %q", config.keychainSource)}
	}
}
