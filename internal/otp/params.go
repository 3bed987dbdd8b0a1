package otp

import "fmt"

// Params are the generator settings of one account.
type Params struct {
	Algorithm Algorithm
	Digits    int
	Period    int
}

// DefaultParams returns SHA1, 6 digits, 30 seconds.
func DefaultParams() Params {
	return Params{Algorithm: DefaultAlgorithm, Digits: DefaultDigits, Period: DefaultPeriod}
}

// WithDefaults fills zero fields with the defaults.
func (p Params) WithDefaults() Params {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// Limits bound the digits and period an account may carry.
type Limits struct {
	MinDigits, MaxDigits int
	MinPeriod, MaxPeriod int
}

var (
	// URILimits apply to imported otpauth URIs.
	URILimits = Limits{MinDigits: 6, MaxDigits: 8, MinPeriod: 15, MaxPeriod: 60}
	// ManualLimits apply to accounts typed in by hand.
	ManualLimits = Limits{MinDigits: 6, MaxDigits: 8, MinPeriod: 1, MaxPeriod: 300}
)

// Validate checks p against l.
func (p Params) Validate(l Limits) error {
	if !p.Algorithm.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(p.Algorithm))
	}
	if p.Digits < l.MinDigits || p.Digits > l.MaxDigits {
		return fmt.Errorf("%w: digits must be %d-%d, got %d", ErrInvalidParameters, l.MinDigits, l.MaxDigits, p.Digits)
	}
	if p.Period < l.MinPeriod || p.Period > l.MaxPeriod {
		return fmt.Errorf("%w: period must be %d-%d, got %d", ErrInvalidParameters, l.MinPeriod, l.MaxPeriod, p.Period)
	}
	return nil
}
