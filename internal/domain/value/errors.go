package value

import "errors"

var (
	// ErrInvalidID is the sentinel for any malformed identifier.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidAmount is the sentinel for negative or malformed monetary amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidEmail is the sentinel for malformed email addresses.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidZip is the sentinel for malformed zip/postal codes.
	ErrInvalidZip = errors.New("invalid zip code")
	// ErrInvalidCountry is the sentinel for non ISO-3166 alpha-2 country codes.
	ErrInvalidCountry = errors.New("invalid country code")
	// ErrInvalidUsername is the sentinel for malformed usernames.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPhoneNumber is the sentinel for malformed phone numbers.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	// ErrInvalidBin is the sentinel for malformed card BINs.
	ErrInvalidBin = errors.New("invalid bin")
	// ErrInvalidLastFour is the sentinel for malformed card last-four digits.
	ErrInvalidLastFour = errors.New("invalid last four")
	// ErrInvalidDuration is the sentinel for non-positive charge durations.
	ErrInvalidDuration = errors.New("invalid duration")
)
