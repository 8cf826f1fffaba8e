package emailcheck

import "errors"

// Reasons returned by Check. Validate collapses all of them to false.
var (
	ErrMissingAt             = errors.New("missing @")
	ErrLocalLength           = errors.New("local part must be 1-64 characters")
	ErrDomainLength          = errors.New("domain must be 1-255 characters")
	ErrLocalDotEdge          = errors.New("local part starts or ends with a dot")
	ErrLocalConsecutiveDots  = errors.New("local part has consecutive dots")
	ErrDomainCharacters      = errors.New("domain has invalid characters")
	ErrDomainConsecutiveDots = errors.New("domain has consecutive dots")
	ErrLocalCharacters       = errors.New("local part has invalid characters")
	ErrNoMailRoute           = errors.New("domain has no MX or A record")
)
