package emailcheck

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

var (
	domainChars = regexp.MustCompile(`^[A-Za-z0-9\-\.]+$`)
	// An atom is a run of permitted characters, each optionally escaped.
	atomLocal = regexp.MustCompile(`^(\\.|[A-Za-z0-9!#%&` + "`" + `_=/$'*+?^{}|~.-])+$`)
	// A quoted local part may contain anything except an unescaped quote.
	quotedLocal = regexp.MustCompile(`^"(\\"|[^"])+"$`)
)

// Validator checks address syntax and then asks a Resolver whether the
// domain accepts mail.
type Validator struct {
	resolver Resolver
	log      logrus.FieldLogger
}

// NewValidator creates a Validator. A nil resolver uses the system resolver
// with the default timeout.
func NewValidator(resolver Resolver, log logrus.FieldLogger) *Validator {
	if resolver == nil {
		resolver = NewSystemResolver(0)
	}
	return &Validator{resolver: resolver, log: logger.OrDefault(log)}
}

// Validate reports whether email passes every syntax rule and its domain has
// an MX or A record.
func (v *Validator) Validate(ctx context.Context, email string) bool {
	return v.Check(ctx, email) == nil
}

// Check is Validate with the reason for rejection.
func (v *Validator) Check(ctx context.Context, email string) error {
	if err := CheckSyntax(email); err != nil {
		return err
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !v.resolver.HasMailRoute(ctx, domain) {
		v.log.WithField("domain", domain).Debug("emailcheck: no mail route")
		return ErrNoMailRoute
	}
	return nil
}

// CheckSyntax applies the syntax rules only. Lengths are counted in bytes.
func CheckSyntax(email string) error {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ErrMissingAt
	}
	local, domain := email[:at], email[at+1:]

	if len(local) < 1 || len(local) > 64 {
		return ErrLocalLength
	}
	if len(domain) < 1 || len(domain) > 255 {
		return ErrDomainLength
	}
	if local[0] == '.' || local[len(local)-1] == '.' {
		return ErrLocalDotEdge
	}
	if strings.Contains(local, "..") {
		return ErrLocalConsecutiveDots
	}
	if !domainChars.MatchString(domain) {
		return ErrDomainCharacters
	}
	if strings.Contains(domain, "..") {
		return ErrDomainConsecutiveDots
	}

	unescaped := strings.ReplaceAll(local, `\\`, "")
	if !atomLocal.MatchString(unescaped) && !quotedLocal.MatchString(unescaped) {
		return ErrLocalCharacters
	}
	return nil
}
