package config

type Export struct {
	Tenant string `env:"EXPORT_TENANT" envDefault:"default"`
	Format string `env:"EXPORT_FORMAT" envDefault:"xlsx"`
	Output string `env:"EXPORT_OUTPUT,required"`
}
