package config

type Ledger struct {
	// KeyPrefix names the blobs: <prefix>_products, <prefix>_stock, <prefix>_activity.
	KeyPrefix     string `env:"LEDGER_KEY_PREFIX" envDefault:"excel_stock_db"`
	DefaultTenant string `env:"LEDGER_DEFAULT_TENANT" envDefault:"default"`
	DefaultUser   string `env:"LEDGER_DEFAULT_USER" envDefault:"User"`
	ActivityLimit int    `env:"LEDGER_ACTIVITY_LIMIT" envDefault:"100"`
	// MaxTenants caps the ledgers kept open; idle ones are closed first. 0 is unlimited.
	MaxTenants int `env:"LEDGER_MAX_TENANTS" envDefault:"256"`
}
