package emailcheck

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

// DefaultTimeout bounds a single mail-route check.
const DefaultTimeout = 5 * time.Second

// Resolver answers whether a domain can receive mail.
type Resolver interface {
	HasMailRoute(ctx context.Context, domain string) bool
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, domain string) bool

// HasMailRoute calls f(ctx, domain).
func (f ResolverFunc) HasMailRoute(ctx context.Context, domain string) bool {
	return f(ctx, domain)
}

// SystemResolver uses the host's resolver configuration.
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewSystemResolver creates a SystemResolver. A zero timeout uses DefaultTimeout.
func NewSystemResolver(timeout time.Duration) *SystemResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SystemResolver{resolver: &net.Resolver{}, timeout: timeout}
}

// HasMailRoute looks for MX records, then IPv4 addresses.
func (r *SystemResolver) HasMailRoute(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.resolver.LookupMX(ctx, domain)
	if err == nil && len(records) > 0 {
		return true
	}
	ips, err := r.resolver.LookupIP(ctx, "ip4", domain)
	return err == nil && len(ips) > 0
}

// NameserverResolver queries one nameserver directly instead of going through
// the host configuration.
type NameserverResolver struct {
	client *dns.Client
	addr   string
	log    logrus.FieldLogger
}

// NewNameserverResolver creates a resolver for addr ("host" or "host:port").
func NewNameserverResolver(addr string, timeout time.Duration, log logrus.FieldLogger) *NameserverResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}
	return &NameserverResolver{
		client: &dns.Client{Net: "udp", Timeout: timeout},
		addr:   addr,
		log:    logger.OrDefault(log),
	}
}

// HasMailRoute asks for MX records, then A records. A failed MX query still
// falls through to the A query.
func (r *NameserverResolver) HasMailRoute(ctx context.Context, domain string) bool {
	fqdn := dns.Fqdn(domain)
	for _, qtype := range []uint16{dns.TypeMX, dns.TypeA} {
		found, err := r.query(ctx, fqdn, qtype)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"domain":     domain,
				"type":       dns.TypeToString[qtype],
				"nameserver": r.addr,
			}).WithError(err).Debug("emailcheck: dns query failed")
			continue
		}
		if found {
			return true
		}
	}
	return false
}

func (r *NameserverResolver) query(ctx context.Context, fqdn string, qtype uint16) (bool, error) {
	m := new(dns.Msg)
	m.SetQuestion(fqdn, qtype)
	m.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, m, r.addr)
	if err != nil {
		return false, err
	}
	if in.Rcode != dns.RcodeSuccess {
		return false, nil
	}
	for _, rr := range in.Answer {
		if rr.Header().Rrtype == qtype {
			return true, nil
		}
	}
	return false, nil
}
