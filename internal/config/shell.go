package config

type Shell struct {
	NearExpiryDays int `env:"NEAR_EXPIRY_DAYS" envDefault:"7" validate:"gte=0"`
}
