package value

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	zipRe      = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,9}$`)
	countryRe  = regexp.MustCompile(`^[A-Z]{2}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._\-]{1,64}$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9().\- ]{7,20}$`)
	binRe      = regexp.MustCompile(`^[0-9]{6}$`)
	lastFourRe = regexp.MustCompile(`^[0-9]{4}$`)
)

// Email is a validated email address.
type Email string

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRe.MatchString(s) {
		return "", fmt.Errorf("email %q: %w", s, ErrInvalidEmail)
	}
	return Email(s), nil
}

func (e Email) String() string { return string(e) }

// Zip is a validated postal code.
type Zip string

func NewZip(s string) (Zip, error) {
	s = strings.TrimSpace(s)
	if !zipRe.MatchString(s) {
		return "", fmt.Errorf("zip %q: %w", s, ErrInvalidZip)
	}
	return Zip(s), nil
}

func (z Zip) String() string { return string(z) }

// CountryCode is an ISO-3166 alpha-2 country code.
type CountryCode string

func NewCountryCode(s string) (CountryCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !countryRe.MatchString(s) {
		return "", fmt.Errorf("country %q: %w", s, ErrInvalidCountry)
	}
	return CountryCode(s), nil
}

func (c CountryCode) String() string { return string(c) }

// Username is a validated member username.
type Username string

func NewUsername(s string) (Username, error) {
	s = strings.TrimSpace(s)
	if !usernameRe.MatchString(s) {
		return "", fmt.Errorf("username %q: %w", s, ErrInvalidUsername)
	}
	return Username(s), nil
}

func (u Username) String() string { return string(u) }

// PhoneNumber is a loosely validated phone number; billers re-validate per
// their own regional rules.
type PhoneNumber string

func NewPhoneNumber(s string) (PhoneNumber, error) {
	s = strings.TrimSpace(s)
	if !phoneRe.MatchString(s) {
		return "", fmt.Errorf("phone %q: %w", s, ErrInvalidPhoneNumber)
	}
	return PhoneNumber(s), nil
}

func (p PhoneNumber) String() string { return string(p) }

// Bin is the first six digits of a card number.
type Bin string

func NewBin(s string) (Bin, error) {
	s = strings.TrimSpace(s)
	if !binRe.MatchString(s) {
		return "", fmt.Errorf("bin %q: %w", s, ErrInvalidBin)
	}
	return Bin(s), nil
}

func (b Bin) String() string { return string(b) }

// LastFour is the last four digits of a card number.
type LastFour string

func NewLastFour(s string) (LastFour, error) {
	s = strings.TrimSpace(s)
	if !lastFourRe.MatchString(s) {
		return "", fmt.Errorf("last four %q: %w", s, ErrInvalidLastFour)
	}
	return LastFour(s), nil
}

func (l LastFour) String() string { return string(l) }
