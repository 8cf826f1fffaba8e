// Package httputil writes the JSON envelopes returned by the audience
// endpoints and decides when a form post asked for JSON instead of the
// result page.
package httputil
