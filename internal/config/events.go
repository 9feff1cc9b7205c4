package config

type Events struct {
	// Enabled turns on the Postgres outbox and the Kafka relay.
	Enabled bool `env:"EVENTS_ENABLED" envDefault:"false"`
}
