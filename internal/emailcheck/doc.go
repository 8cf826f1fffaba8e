// Package emailcheck decides whether an address is worth sending to the
// mailing-list service: a fixed set of syntax rules followed by a check that
// the domain can receive mail (an MX or an A record).
//
// The DNS step goes through the Resolver interface so tests can run without
// network access. A failed or timed-out lookup counts as "no route", which
// makes the address invalid.
package emailcheck
