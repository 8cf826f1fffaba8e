package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ignite/audience-subscribe/internal/domain"
)

// Outcome labels for audience_requests_total.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidEmail       = "invalid_email"
	OutcomeMissingCredentials = "missing_credentials"
	OutcomeRemoteError        = "remote_error"
	OutcomeNotFound           = "not_found"
	OutcomeRateLimited        = "rate_limited"
	OutcomeBadRequest         = "bad_request"
)

// Metrics counts handled requests.
type Metrics struct {
	Requests *prometheus.CounterVec
}

// NewMetrics creates the request counter and registers it with reg when reg
// is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audience_requests_total",
		Help: "Audience form requests by action and outcome.",
	}, []string{"action", "outcome"})
	if reg != nil {
		reg.MustRegister(requests)
	}
	return &Metrics{Requests: requests}
}

// IncRequest counts one answered request. A nil Metrics is a no-op.
func (m *Metrics) IncRequest(action domain.Action, outcome string) {
	if m == nil || m.Requests == nil {
		return
	}

	m.Requests.WithLabelValues(string(action), outcome).Inc()
}

func responseOutcome(resp domain.Response) string {
	switch {
	case resp.Success:
		return OutcomeSuccess
	case resp.ErrorCode == domain.CodeSuccess:
		// Deprecated checks answer 200 without success for unsubscribed members.
		return OutcomeSuccess
	case resp.ErrorCode == domain.CodeInvalidEmail:
		return OutcomeInvalidEmail
	case resp.ErrorCode == domain.CodeMissingCredentials:
		return OutcomeMissingCredentials
	default:
		return OutcomeRemoteError
	}
}

func lookupOutcome(found bool) string {
	if found {
		return OutcomeSuccess
	}
	return OutcomeNotFound
}
