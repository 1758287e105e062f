package credstore

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envelopeVersion = 1

// fileEnvelope is the on-disk format. When a passphrase is configured, each
// value is base64(nonce|AES-GCM ciphertext) and Salt holds the argon2id salt;
// otherwise values are stored as-is and Salt is empty.
type fileEnvelope struct {
	Version int               `json:"version"`
	Salt    string            `json:"salt,omitempty"`
	Values  map[string]string `json:"values"`
}

// FileStore is a Store persisted as a single JSON file. An unreadable or
// unparseable file is treated as an empty store, never as a fatal error.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu     sync.Mutex
	values map[string]string
	key    []byte // nil when the store is plaintext
	salt   []byte
}

type FileStoreOption func(*FileStore)

// WithPassphrase enables encryption at rest for all stored values.
func WithPassphrase(passphrase string) FileStoreOption {
	return func(fs *FileStore) {
		if passphrase != "" {
			fs.key = deriveKey(passphrase, fs.salt)
		}
	}
}

func WithLogger(logger zerolog.Logger) FileStoreOption {
	return func(fs *FileStore) {
		fs.log = logger
	}
}

// NewFileStore opens (or initializes) the credential file at path.
func NewFileStore(path string, options ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}

	fs := &FileStore{
		path:   path,
		log:    log.Logger,
		values: map[string]string{},
	}

	envelope, salt := fs.loadEnvelope(path)
	fs.salt = salt

	for _, opt := range options {
		opt(fs)
	}

	if envelope != nil {
		fs.decodeValues(envelope)
	}
	return fs, nil
}

// loadEnvelope reads the persisted envelope, generating a fresh salt when the
// file is missing or corrupt.
func (fs *FileStore) loadEnvelope(path string) (*fileEnvelope, []byte) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.log.Warn().Err(err).Str("path", path).Msg("credential store unreadable, starting empty")
		}
		salt, saltErr := newSalt()
		if saltErr != nil {
			salt = make([]byte, saltLength)
		}
		return nil, salt
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		fs.log.Warn().Err(err).Str("path", path).Msg("credential store corrupt, discarding")
		salt, saltErr := newSalt()
		if saltErr != nil {
			salt = make([]byte, saltLength)
		}
		return nil, salt
	}

	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil || len(salt) != saltLength {
		salt, err = newSalt()
		if err != nil {
			salt = make([]byte, saltLength)
		}
	}
	return &envelope, salt
}

// decodeValues moves persisted values into memory, decrypting when a key is
// configured. Entries that fail to decrypt or decode are discarded.
func (fs *FileStore) decodeValues(envelope *fileEnvelope) {
	for k, v := range envelope.Values {
		if fs.key == nil {
			fs.values[k] = v
			continue
		}
		sealed, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			fs.log.Warn().Str("key", k).Msg("discarding undecodable credential entry")
			continue
		}
		plaintext, err := open(fs.key, sealed)
		if err != nil {
			fs.log.Warn().Str("key", k).Msg("discarding undecryptable credential entry")
			continue
		}
		fs.values[k] = string(plaintext)
	}
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values[key] = value
	return fs.persist()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.values, key)
	return fs.persist()
}

func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values = map[string]string{}
	return fs.persist()
}

// persist writes the whole envelope via a temp file and rename so a crash
// mid-write never leaves a half-written store. Callers must hold fs.mu.
func (fs *FileStore) persist() error {
	envelope := fileEnvelope{
		Version: envelopeVersion,
		Values:  make(map[string]string, len(fs.values)),
	}
	if fs.key != nil {
		envelope.Salt = base64.StdEncoding.EncodeToString(fs.salt)
	}

	for k, v := range fs.values {
		if fs.key == nil {
			envelope.Values[k] = v
			continue
		}
		sealed, err := seal(fs.key, []byte(v))
		if err != nil {
			return errors.Wrap(err, "[FileStore.persist] seal")
		}
		envelope.Values[k] = base64.StdEncoding.EncodeToString(sealed)
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "[FileStore.persist] json.Marshal")
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.persist] os.MkdirAll")
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.persist] os.WriteFile")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.persist] os.Rename")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
