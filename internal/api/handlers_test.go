package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/pkg/ratelimit"
)

type subscribeCall struct {
	email      string
	audienceID string
	opts       domain.SubscriptionOptions
}

type stubService struct {
	subscribeCalls []subscribeCall
	deleteCalls    []bool
	resp           domain.Response
	member         *domain.Member
	audience       *domain.Audience
	groups         []domain.InterestCategory
	tags           []domain.MemberTag
	perms          []domain.MemberMarketingPermission
}

func (s *stubService) Subscribe(_ context.Context, email, audienceID string, opts domain.SubscriptionOptions) domain.Response {
	s.subscribeCalls = append(s.subscribeCalls, subscribeCall{email, audienceID, opts})
	resp := s.resp
	resp.Action = domain.ActionSubscribe
	return resp
}

func (s *stubService) Unsubscribe(_ context.Context, email, audienceID string) domain.Response {
	resp := s.resp
	resp.Action = domain.ActionUnsubscribe
	return resp
}

func (s *stubService) Delete(_ context.Context, email, audienceID string, permanent bool) domain.Response {
	s.deleteCalls = append(s.deleteCalls, permanent)
	resp := s.resp
	resp.Action = domain.ActionDelete
	return resp
}

func (s *stubService) GetMemberByEmail(context.Context, string, string) *domain.Member {
	return s.member
}

func (s *stubService) GetAudienceByID(context.Context, string) *domain.Audience { return s.audience }

func (s *stubService) GetInterestGroups(context.Context, string) []domain.InterestCategory {
	return s.groups
}

func (s *stubService) GetMemberTagsByEmail(context.Context, string, string) []domain.MemberTag {
	return s.tags
}

func (s *stubService) GetMarketingPermissionsByEmail(context.Context, string, string) []domain.MemberMarketingPermission {
	return s.perms
}

func (s *stubService) CheckIfSubscribed(context.Context, string, string) domain.Response {
	resp := s.resp
	resp.Action = domain.ActionCheckIfSubscribed
	return resp
}

func (s *stubService) CheckIfInList(context.Context, string, string) domain.Response {
	resp := s.resp
	resp.Action = domain.ActionCheckIfInList
	return resp
}

type harness struct {
	router  http.Handler
	svc     *stubService
	metrics *Metrics
	hook    *test.Hook
}

func setupHandlers(t *testing.T, limiter RateLimiter) *harness {
	t.Helper()
	return setupHandlersWithRoutes(t, limiter, RouteOptions{})
}

func setupHandlersWithRoutes(t *testing.T, limiter RateLimiter, opts RouteOptions) *harness {
	t.Helper()
	svc := &stubService{resp: domain.Response{Success: true, ErrorCode: domain.CodeSuccess, Message: "Subscribed successfully"}}
	log, hook := test.NewNullLogger()

	h := NewHandlers(svc, nil, log)
	metrics := NewMetrics(nil)
	h.SetMetrics(metrics)
	if limiter != nil {
		h.SetRateLimiter(limiter)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.Requests)
	opts.Gatherer = registry
	router := SetupRoutes(h, opts)
	return &harness{router: router, svc: svc, metrics: metrics, hook: hook}
}

func postForm(h http.Handler, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(h http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubscribe_JSONBody(t *testing.T) {
	hs := setupHandlers(t, nil)

	rec := postJSON(hs.router, "/audience/subscribe", map[string]any{
		"email":                 "user@example.com",
		"audienceId":            "aud1",
		"merge_fields":          map[string]any{"FNAME": "Ada"},
		"interests":             []string{"A", "B"},
		"tags":                  []string{"news"},
		"marketing_permissions": []string{"email"},
		"vip":                   true,
		"language":              "fr",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domain.ActionSubscribe, resp.Action)

	require.Len(t, hs.svc.subscribeCalls, 1)
	call := hs.svc.subscribeCalls[0]
	assert.Equal(t, "user@example.com", call.email)
	assert.Equal(t, "aud1", call.audienceID)
	assert.Equal(t, "Ada", call.opts.MergeFields["FNAME"])
	assert.Equal(t, domain.InterestSelection{"A": true, "B": true}, call.opts.Interests)
	assert.Equal(t, []string{"news"}, call.opts.Tags)
	assert.Equal(t, []string{"email"}, call.opts.MarketingPermissions)
	require.NotNil(t, call.opts.VIP)
	assert.True(t, *call.opts.VIP)
	assert.Equal(t, "fr", call.opts.Language)
	assert.Equal(t, domain.DefaultEmailType, call.opts.EmailType)

	assert.Equal(t, 1.0, testutil.ToFloat64(hs.metrics.Requests.WithLabelValues("subscribe", OutcomeSuccess)))
}

func TestSubscribe_FormBody(t *testing.T) {
	hs := setupHandlers(t, nil)

	form := url.Values{
		"email":                   {"user@example.com"},
		"merge_fields[FNAME]":     {"Ada"},
		"interests[]":             {"A", "B"},
		"tags":                    {"news,offers"},
		"marketing_permissions[]": {"email"},
		"vip":                     {"on"},
		"email_type":              {"text"},
	}
	rec := postForm(hs.router, "/audience/subscribe", form, "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, hs.svc.subscribeCalls, 1)
	opts := hs.svc.subscribeCalls[0].opts
	assert.Equal(t, map[string]any{"FNAME": "Ada"}, opts.MergeFields)
	assert.Equal(t, domain.InterestSelection{"A": true, "B": true}, opts.Interests)
	assert.Equal(t, []string{"news", "offers"}, opts.Tags)
	assert.Equal(t, []string{"email"}, opts.MarketingPermissions)
	require.NotNil(t, opts.VIP)
	assert.True(t, *opts.VIP)
	assert.Equal(t, "text", opts.EmailType)
}

func TestSubscribe_OmittedTagsStayNil(t *testing.T) {
	hs := setupHandlers(t, nil)

	postForm(hs.router, "/audience/subscribe", url.Values{"email": {"user@example.com"}}, "application/json")

	require.Len(t, hs.svc.subscribeCalls, 1)
	opts := hs.svc.subscribeCalls[0].opts
	assert.Nil(t, opts.Tags)
	assert.Nil(t, opts.MarketingPermissions)
	assert.Nil(t, opts.Interests)
	assert.Nil(t, opts.VIP)
}

func TestSubscribe_JSONNullListsAreOmitted(t *testing.T) {
	hs := setupHandlers(t, nil)

	postJSON(hs.router, "/audience/subscribe", map[string]any{
		"email":                 "user@example.com",
		"tags":                  nil,
		"marketing_permissions": nil,
		"interests":             nil,
		"mcvars":                map[string]any{"interests": nil},
	})

	require.Len(t, hs.svc.subscribeCalls, 1)
	opts := hs.svc.subscribeCalls[0].opts
	assert.Nil(t, opts.Tags)
	assert.Nil(t, opts.MarketingPermissions)
	assert.Nil(t, opts.Interests)
}

func TestSubscribe_EmptyJSONListsClear(t *testing.T) {
	hs := setupHandlers(t, nil)

	postJSON(hs.router, "/audience/subscribe", map[string]any{
		"email":                 "user@example.com",
		"tags":                  []string{},
		"marketing_permissions": []string{},
	})

	require.Len(t, hs.svc.subscribeCalls, 1)
	opts := hs.svc.subscribeCalls[0].opts
	assert.NotNil(t, opts.Tags)
	assert.Empty(t, opts.Tags)
	assert.NotNil(t, opts.MarketingPermissions)
	assert.Empty(t, opts.MarketingPermissions)
}

func TestSubscribe_DeprecatedEmailTypeOverrides(t *testing.T) {
	hs := setupHandlers(t, nil)

	form := url.Values{
		"email":      {"user@example.com"},
		"email_type": {"html"},
		"emailtype":  {"text"},
	}
	postForm(hs.router, "/audience/subscribe", form, "application/json")

	require.Len(t, hs.svc.subscribeCalls, 1)
	assert.Equal(t, "text", hs.svc.subscribeCalls[0].opts.EmailType)
}

func TestSubscribe_DeprecatedParams(t *testing.T) {
	hs := setupHandlers(t, nil)

	form := url.Values{
		"email":               {"user@example.com"},
		"lid":                 {"legacy"},
		"emailtype":           {"text"},
		"mcvars[FNAME]":       {"Ada"},
		"mcvars[interests][]": {"A"},
	}
	postForm(hs.router, "/audience/subscribe", form, "application/json")

	require.Len(t, hs.svc.subscribeCalls, 1)
	call := hs.svc.subscribeCalls[0]
	assert.Equal(t, "legacy", call.audienceID)
	assert.Equal(t, "text", call.opts.EmailType)
	assert.Equal(t, map[string]any{"FNAME": "Ada"}, call.opts.MergeFields)
	assert.Equal(t, domain.InterestSelection{"A": true}, call.opts.Interests)

	var params []string
	for _, e := range hs.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "api: deprecated request parameter" {
			params = append(params, e.Data["deprecated"].(string))
		}
	}
	assert.ElementsMatch(t, []string{"lid", "emailtype", "mcvars"}, params)
}

func TestSubscribe_NewParamsWinOverDeprecated(t *testing.T) {
	hs := setupHandlers(t, nil)

	form := url.Values{
		"email":               {"user@example.com"},
		"audienceId":          {"current"},
		"lid":                 {"legacy"},
		"merge_fields[FNAME]": {"New"},
		"mcvars[FNAME]":       {"Old"},
	}
	postForm(hs.router, "/audience/subscribe", form, "application/json")

	require.Len(t, hs.svc.subscribeCalls, 1)
	assert.Equal(t, "current", hs.svc.subscribeCalls[0].audienceID)
	assert.Equal(t, "New", hs.svc.subscribeCalls[0].opts.MergeFields["FNAME"])
}

func TestSubscribe_MalformedJSON(t *testing.T) {
	hs := setupHandlers(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/audience/subscribe", strings.NewReader("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	hs.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, hs.svc.subscribeCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(hs.metrics.Requests.WithLabelValues("subscribe", OutcomeBadRequest)))
}

func TestSubscribe_RedirectOnSuccess(t *testing.T) {
	hs := setupHandlers(t, nil)

	form := url.Values{"email": {"user@example.com"}, "redirect": {"/thanks?from=form"}}
	rec := postForm(hs.router, "/audience/subscribe", form, "text/html")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/thanks?from=form", rec.Header().Get("Location"))
}

func TestSubscribe_FailureRendersPageInsteadOfRedirect(t *testing.T) {
	hs := setupHandlers(t, nil)
	hs.svc.resp = domain.Response{ErrorCode: domain.CodeInvalidEmail, Message: "Invalid email"}

	form := url.Values{"email": {"bad"}, "redirect": {"/thanks"}}
	rec := postForm(hs.router, "/audience/subscribe", form, "text/html")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Invalid email")
	assert.Contains(t, rec.Body.String(), `class="error"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(hs.metrics.Requests.WithLabelValues("subscribe", OutcomeInvalidEmail)))
}

func TestSubscribe_OffSiteRedirectIgnored(t *testing.T) {
	hs := setupHandlers(t, nil)

	form := url.Values{"email": {"user@example.com"}, "redirect": {"https://evil.example/"}}
	rec := postForm(hs.router, "/audience/subscribe", form, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "Subscribed successfully")
}

func TestSubscribe_PageEscapesMessage(t *testing.T) {
	hs := setupHandlers(t, nil)
	hs.svc.resp = domain.Response{ErrorCode: 400, Message: "<script>alert(1)</script>"}

	rec := postForm(hs.router, "/audience/subscribe", url.Values{"email": {"a@b.c"}}, "")

	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestDelete_PermanentFlag(t *testing.T) {
	hs := setupHandlers(t, nil)

	for _, v := range []string{"on", "yes", "1", "true", "off", ""} {
		postForm(hs.router, "/audience/delete", url.Values{"email": {"user@example.com"}, "permanent": {v}}, "application/json")
	}
	assert.Equal(t, []bool{true, true, true, true, false, false}, hs.svc.deleteCalls)
}

func TestUnsubscribeAndChecks_JSON(t *testing.T) {
	hs := setupHandlers(t, nil)

	for path, action := range map[string]domain.Action{
		"/audience/unsubscribe":         domain.ActionUnsubscribe,
		"/audience/check-if-subscribed": domain.ActionCheckIfSubscribed,
		"/audience/check-if-in-list":    domain.ActionCheckIfInList,
	} {
		rec := postForm(hs.router, path, url.Values{"email": {"user@example.com"}}, "application/json")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp domain.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, action, resp.Action, path)
	}
}

func TestGetMemberByEmail_Envelope(t *testing.T) {
	hs := setupHandlers(t, nil)
	hs.svc.member = &domain.Member{EmailAddress: "user@example.com", Status: domain.StatusSubscribed}

	rec := postForm(hs.router, "/audience/get-member-by-email", url.Values{"email": {"user@example.com"}}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Action   string         `json:"action"`
		Success  bool           `json:"success"`
		Response *domain.Member `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(domain.ActionGetMember), body.Action)
	assert.True(t, body.Success)
	require.NotNil(t, body.Response)
	assert.Equal(t, domain.StatusSubscribed, body.Response.Status)
}

func TestGetAudienceByID_NotFound(t *testing.T) {
	hs := setupHandlers(t, nil)

	rec := postForm(hs.router, "/audience/get-audience-by-id", url.Values{"audienceId": {"nope"}}, "")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["response"])
	assert.Equal(t, 1.0, testutil.ToFloat64(hs.metrics.Requests.WithLabelValues("get-audience", OutcomeNotFound)))
}

func TestGetEndpoints(t *testing.T) {
	hs := setupHandlers(t, nil)
	hs.svc.groups = []domain.InterestCategory{{ID: "cat", Title: "Plan"}}
	hs.svc.tags = []domain.MemberTag{{ID: 1, Name: "vip"}}
	hs.svc.perms = []domain.MemberMarketingPermission{{ID: "email", Enabled: true}}

	for _, path := range []string{
		"/audience/interest-groups?audienceId=aud1",
		"/audience/member-tags?email=user@example.com",
		"/audience/marketing-permissions?email=user@example.com",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		hs.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"], path)
		assert.Len(t, body["response"], 1, path)
	}
}

func TestListRoutesMirrorAudience(t *testing.T) {
	hs := setupHandlers(t, nil)

	rec := postForm(hs.router, "/list/subscribe", url.Values{"email": {"user@example.com"}}, "application/json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, hs.svc.subscribeCalls, 1)

	var warned bool
	for _, e := range hs.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "/list routes are deprecated") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := ratelimit.NewLimiter(client, "forms", 2, time.Minute)
	hs := setupHandlers(t, limiter)

	form := url.Values{"email": {"user@example.com"}}
	for i := 0; i < 2; i++ {
		rec := postForm(hs.router, "/audience/subscribe", form, "application/json")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postForm(hs.router, "/audience/subscribe", form, "application/json")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Len(t, hs.svc.subscribeCalls, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(hs.metrics.Requests.WithLabelValues("subscribe", OutcomeRateLimited)))

	// Other actions have their own window.
	rec = postForm(hs.router, "/audience/unsubscribe", form, "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func postFrom(h http.Handler, path, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("email=user%40example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	req.RemoteAddr = "198.51.100.7:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_IgnoresForwardedHeadersByDefault(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hs := setupHandlers(t, ratelimit.NewLimiter(client, "forms", 2, time.Minute))

	var codes []int
	for i := 0; i < 5; i++ {
		rec := postFrom(hs.router, "/audience/subscribe", fmt.Sprintf("203.0.113.%d", i+1))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 429, 429, 429}, codes)
	assert.Len(t, hs.svc.subscribeCalls, 2)
}

func TestRateLimit_TrustProxyKeysOnForwardedAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hs := setupHandlersWithRoutes(t, ratelimit.NewLimiter(client, "forms", 2, time.Minute), RouteOptions{TrustProxy: true})

	for i := 0; i < 3; i++ {
		rec := postFrom(hs.router, "/audience/subscribe", fmt.Sprintf("203.0.113.%d", i+1))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	for i := 0; i < 2; i++ {
		postFrom(hs.router, "/audience/subscribe", "203.0.113.9")
	}
	rec := postFrom(hs.router, "/audience/subscribe", "203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	hs := setupHandlers(t, failingLimiter{})

	rec := postForm(hs.router, "/audience/subscribe", url.Values{"email": {"user@example.com"}}, "application/json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, hs.svc.subscribeCalls, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	hs := setupHandlers(t, nil)
	postForm(hs.router, "/audience/subscribe", url.Values{"email": {"user@example.com"}}, "application/json")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	hs.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `audience_requests_total{action="subscribe",outcome="success"} 1`)
}

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hc := NewHealthChecker(nil, client)

	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["redis"].Status)
	assert.Equal(t, "disabled", status.Checks["database"].Status)

	mr.Close()
	rec = httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "down", status.Checks["redis"].Status)
}

func TestPages_CustomTemplate(t *testing.T) {
	dir := t.TempDir()
	tpl := `{% if result.success %}OK{% else %}FAIL{% endif %}: {{ result.message }} ({{ result.errorCode }})`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ResultTemplate), []byte(tpl), 0o644))

	pages, err := NewPages(dir)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	pages.Render(rec, http.StatusOK, domain.Response{ErrorCode: 1000, Message: "Invalid email"}, "")
	assert.Equal(t, "FAIL: Invalid email (1000)", rec.Body.String())
}

func TestPages_MissingDirFallsBack(t *testing.T) {
	pages, err := NewPages(t.TempDir())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	pages.Render(rec, http.StatusOK, domain.Response{Success: true, Message: "Subscribed successfully"}, "/signup")
	assert.Contains(t, rec.Body.String(), "Thank you")
	assert.Contains(t, rec.Body.String(), `href="/signup"`)
}

func TestPages_InvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ResultTemplate), []byte("{% if result.success %}unclosed"), 0o644))

	_, err := NewPages(dir)
	assert.Error(t, err)
}
