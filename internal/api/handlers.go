package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/pkg/httputil"
	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

// SubscriptionService is the orchestrator behind the form endpoints.
// Implemented by *subscription.Service.
type SubscriptionService interface {
	Subscribe(ctx context.Context, email, audienceID string, opts domain.SubscriptionOptions) domain.Response
	Unsubscribe(ctx context.Context, email, audienceID string) domain.Response
	Delete(ctx context.Context, email, audienceID string, permanent bool) domain.Response
	GetMemberByEmail(ctx context.Context, email, audienceID string) *domain.Member
	GetAudienceByID(ctx context.Context, audienceID string) *domain.Audience
	GetInterestGroups(ctx context.Context, audienceID string) []domain.InterestCategory
	GetMemberTagsByEmail(ctx context.Context, email, audienceID string) []domain.MemberTag
	GetMarketingPermissionsByEmail(ctx context.Context, email, audienceID string) []domain.MemberMarketingPermission
	CheckIfSubscribed(ctx context.Context, email, audienceID string) domain.Response
	CheckIfInList(ctx context.Context, email, audienceID string) domain.Response
}

// RateLimiter throttles public endpoints per client. Implemented by
// *ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	svc     SubscriptionService
	pages   *Pages
	limiter RateLimiter
	metrics *Metrics
	log     logrus.FieldLogger
}

// NewHandlers creates a new Handlers instance. A nil pages value uses the
// built-in result page.
func NewHandlers(svc SubscriptionService, pages *Pages, log logrus.FieldLogger) *Handlers {
	if pages == nil {
		pages, _ = NewPages("")
	}
	return &Handlers{
		svc:   svc,
		pages: pages,
		log:   logger.OrDefault(log),
	}
}

// SetRateLimiter enables per-client throttling of the mutating endpoints.
func (h *Handlers) SetRateLimiter(l RateLimiter) {
	h.limiter = l
}

// SetMetrics sets the request counters.
func (h *Handlers) SetMetrics(m *Metrics) {
	h.metrics = m
}

func (h *Handlers) request(w http.ResponseWriter, r *http.Request, action domain.Action) (formRequest, bool) {
	p, err := readParams(r)
	if err != nil {
		h.metrics.IncRequest(action, OutcomeBadRequest)
		httputil.BadRequest(w, err.Error())
		return formRequest{}, false
	}
	req := decodeRequest(p)
	for _, name := range req.deprecated {
		h.log.WithField("deprecated", name).WithField("path", r.URL.Path).
			Warn("api: deprecated request parameter")
	}
	return req, true
}

// respond picks the representation: JSON for clients that ask for it, a 303
// to the posted redirect after success, the result page otherwise.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, resp domain.Response, redirect string) {
	h.metrics.IncRequest(resp.Action, responseOutcome(resp))

	if httputil.WantsJSON(r) {
		httputil.OK(w, resp)
		return
	}
	if redirect != "" && resp.Success {
		if safeRedirect(redirect) {
			http.Redirect(w, r, redirect, http.StatusSeeOther)
			return
		}
		h.log.WithField("redirect", redirect).Warn("api: ignoring off-site redirect")
	}

	back := r.Referer()
	if !safeRedirect(back) {
		if u, err := r.URL.Parse(back); err != nil || u.Host != r.Host {
			back = ""
		}
	}
	h.pages.Render(w, http.StatusOK, resp, back)
}

func (h *Handlers) lookup(w http.ResponseWriter, action domain.Action, found bool, payload any) {
	h.metrics.IncRequest(action, lookupOutcome(found))
	resp := domain.LookupResponse{Action: action, Success: found}
	if found {
		resp.Response = payload
	}
	httputil.OK(w, resp)
}

// Subscribe adds or updates a member.
//
//	POST /audience/subscribe
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionSubscribe)
	if !ok {
		return
	}
	resp := h.svc.Subscribe(r.Context(), req.Email, req.AudienceID, req.Options)
	h.respond(w, r, resp, req.Redirect)
}

// Unsubscribe marks a member unsubscribed.
//
//	POST /audience/unsubscribe
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionUnsubscribe)
	if !ok {
		return
	}
	resp := h.svc.Unsubscribe(r.Context(), req.Email, req.AudienceID)
	h.respond(w, r, resp, req.Redirect)
}

// Delete archives a member, or erases it when permanent is set.
//
//	POST /audience/delete
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionDelete)
	if !ok {
		return
	}
	resp := h.svc.Delete(r.Context(), req.Email, req.AudienceID, req.Permanent)
	h.respond(w, r, resp, req.Redirect)
}

// CheckIfSubscribed is kept for old forms.
//
//	POST /audience/check-if-subscribed
func (h *Handlers) CheckIfSubscribed(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionCheckIfSubscribed)
	if !ok {
		return
	}
	resp := h.svc.CheckIfSubscribed(r.Context(), req.Email, req.AudienceID)
	h.respond(w, r, resp, req.Redirect)
}

// CheckIfInList is kept for old forms.
//
//	POST /audience/check-if-in-list
func (h *Handlers) CheckIfInList(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionCheckIfInList)
	if !ok {
		return
	}
	resp := h.svc.CheckIfInList(r.Context(), req.Email, req.AudienceID)
	h.respond(w, r, resp, req.Redirect)
}

// GetMemberByEmail answers {action, success, response}.
//
//	POST /audience/get-member-by-email
func (h *Handlers) GetMemberByEmail(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionGetMember)
	if !ok {
		return
	}
	member := h.svc.GetMemberByEmail(r.Context(), req.Email, req.AudienceID)
	h.lookup(w, domain.ActionGetMember, member != nil, member)
}

// GetAudienceByID answers {action, success, response}.
//
//	POST /audience/get-audience-by-id
func (h *Handlers) GetAudienceByID(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionGetAudience)
	if !ok {
		return
	}
	audience := h.svc.GetAudienceByID(r.Context(), req.AudienceID)
	h.lookup(w, domain.ActionGetAudience, audience != nil, audience)
}

// GetInterestGroups lists every interest category with its interests.
//
//	GET /audience/interest-groups?audienceId=
func (h *Handlers) GetInterestGroups(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionGetInterestGroups)
	if !ok {
		return
	}
	groups := h.svc.GetInterestGroups(r.Context(), req.AudienceID)
	h.lookup(w, domain.ActionGetInterestGroups, groups != nil, groups)
}

// GetMemberTags lists the member's tags.
//
//	GET /audience/member-tags?email=&audienceId=
func (h *Handlers) GetMemberTags(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionGetMemberTags)
	if !ok {
		return
	}
	tags := h.svc.GetMemberTagsByEmail(r.Context(), req.Email, req.AudienceID)
	h.lookup(w, domain.ActionGetMemberTags, tags != nil, tags)
}

// GetMarketingPermissions lists the member's consent settings.
//
//	GET /audience/marketing-permissions?email=&audienceId=
func (h *Handlers) GetMarketingPermissions(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r, domain.ActionGetMarketingPermissions)
	if !ok {
		return
	}
	perms := h.svc.GetMarketingPermissionsByEmail(r.Context(), req.Email, req.AudienceID)
	h.lookup(w, domain.ActionGetMarketingPermissions, perms != nil, perms)
}

// RateLimit throttles requests per client IP. Limiter errors let the
// request through.
func (h *Handlers) RateLimit(action domain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			allowed, retryAfter, err := h.limiter.Allow(r.Context(), string(action)+":"+clientIP(r))
			if err != nil {
				h.log.WithError(err).Warn("api: rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				h.metrics.IncRequest(action, OutcomeRateLimited)
				if retryAfter > 0 {
					secs := int((retryAfter + time.Second - 1) / time.Second)
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				httputil.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LegacyList logs use of the /list routes that predate audiences.
func (h *Handlers) LegacyList(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.WithField("deprecated", "/list").WithField("path", r.URL.Path).
			Warn("api: /list routes are deprecated, use /audience")
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
