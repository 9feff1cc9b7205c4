package config

type HTTP struct {
	Port           uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger        bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MaxUploadBytes int64    `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}
