package url

import "errors"

var (
	// ErrInvalidURL reports a terminal parse failure. The rejected input
	// is carried in the error message for diagnostics.
	ErrInvalidURL = errors.New("invalid url")
	// ErrMissingScheme reports input with no scheme and no usable base.
	ErrMissingScheme = errors.New("missing scheme")
	// ErrInvalidHost reports a host that failed classification: forbidden
	// code points, IDNA failure or an out-of-range IPv4 address.
	ErrInvalidHost = errors.New("invalid host")
	// ErrInvalidIPv6 reports a malformed bracketed IPv6 literal.
	ErrInvalidIPv6 = errors.New("invalid ipv6 address")
	// ErrInvalidPort reports a non-numeric or out-of-range port.
	ErrInvalidPort = errors.New("invalid port")

	errHostMissing    = errors.New("host missing")
	errSetterRejected = errors.New("setter precondition not met")
)
