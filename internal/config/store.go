package config

// Store selects the key-value backend holding the ledger blobs.
type Store struct {
	Backend StoreBackend `env:"STORE_BACKEND" envDefault:"MEMORY"`
	// QuotaBytes bounds the memory backend, 0 means unbounded.
	QuotaBytes int `env:"STORE_QUOTA_BYTES" envDefault:"0"`
}

type StoreBackend uint8

const (
	StoreBackendMemory StoreBackend = iota
	StoreBackendRedis
	StoreBackendPostgres
)

var storeBackendNames = []string{"MEMORY", "REDIS", "POSTGRES"}

func (b StoreBackend) String() string {
	return enumName(storeBackendNames, b)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v, err := parseEnum[StoreBackend]("store backend", storeBackendNames, text)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b StoreBackend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
