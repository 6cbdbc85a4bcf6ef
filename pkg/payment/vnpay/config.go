package vnpay

// Config represents the configuration for the VNPay client
type Config struct {
	// TmnCode is the merchant terminal code issued by VNPay
	TmnCode string

	// HashSecret is the shared key used for HMAC-SHA512 signing
	HashSecret string

	// PayURL is the VNPay hosted payment page URL
	PayURL string

	// ReturnURL is the callback URL VNPay redirects the customer to
	ReturnURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TmnCode == "" {
		return ErrInvalidConfig
	}
	if c.HashSecret == "" {
		return ErrInvalidConfig
	}
	if c.PayURL == "" {
		return ErrInvalidConfig
	}
	if c.ReturnURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
