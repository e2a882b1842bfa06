package domain

import "errors"

var (
	// ErrDomainRequired is returned when the domain is blank after trimming
	ErrDomainRequired = errors.New("Domain is required") //nolint:staticcheck // surfaced verbatim to users
	// ErrDomainTooLong is returned when the domain exceeds the maximum hostname length
	ErrDomainTooLong = errors.New("Domain too long") //nolint:staticcheck // surfaced verbatim to users
	// ErrInvalidDomainFormat is returned when the domain does not match the hostname grammar
	ErrInvalidDomainFormat = errors.New("Invalid domain format (e.g. example.com)") //nolint:staticcheck // surfaced verbatim to users
)
