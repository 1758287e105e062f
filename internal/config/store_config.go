package config

type StoreConfig interface {
	GetDataFolder() string
	GetStorePassphrase() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetDataFolder() string {
	return GetEnv("FOLDER", "./data")
}

// GetStorePassphrase returns the passphrase used to encrypt persisted
// credentials at rest. Empty means the credential store is written in plain
// JSON.
func (Store) GetStorePassphrase() string {
	return GetEnv("STORE_PASSPHRASE", "")
}
