package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/mailchimp"
	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

// Service orchestrates audience membership. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	api       RemoteAPI
	validator EmailValidator
	settings  Settings
	events    EventSink
	log       logrus.FieldLogger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Nil keeps the package default.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithEventSink records an event for every mutating call that reached the remote API.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		s.events = sink
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a subscription service.
func NewService(api RemoteAPI, validator EmailValidator, settings Settings, opts ...Option) *Service {
	s := &Service{
		api:       api,
		validator: validator,
		settings:  settings,
		log:       logger.OrDefault(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe creates or updates a member. New members start as pending when
// double opt-in is enabled. Interest and marketing-permission selections are
// reconciled against the member's current state before the upsert. Tags, when
// supplied, are pushed afterwards; a tag failure is logged and does not change
// the result.
func (s *Service) Subscribe(ctx context.Context, email, audienceID string, opts domain.SubscriptionOptions) domain.Response {
	values := subscribeValues(email, opts)

	if email == "" || !s.validator.Validate(ctx, email) {
		return invalidEmail(domain.ActionSubscribe, values)
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return missingCredentials(domain.ActionSubscribe, values)
	}

	member := s.existingMember(ctx, audienceID, email)

	status := domain.StatusSubscribed
	if s.settings.DoubleOptIn {
		status = domain.StatusPending
	}
	emailType := opts.EmailType
	if emailType == "" {
		emailType = domain.DefaultEmailType
	}
	req := domain.MemberRequest{
		EmailAddress: email,
		Status:       status,
		StatusIfNew:  status,
		EmailType:    emailType,
		Language:     opts.Language,
		VIP:          opts.VIP,
	}
	if len(opts.MergeFields) > 0 {
		req.MergeFields = opts.MergeFields
	}
	if len(opts.Interests) > 0 {
		req.Interests = s.reconcileInterests(ctx, audienceID, member, opts.Interests)
		values["interests"] = req.Interests
	}
	if opts.MarketingPermissions != nil {
		var current []domain.MemberMarketingPermission
		if member != nil {
			current = member.MarketingPermissions
		}
		req.MarketingPermissions = ReconcileMarketingPermissions(current, opts.MarketingPermissions)
		values["marketing_permissions"] = req.MarketingPermissions
	}

	result, err := s.api.SetMember(ctx, audienceID, email, req)
	if err != nil {
		resp := remoteFailure(domain.ActionSubscribe, err, values)
		s.log.WithFields(logrus.Fields{
			"audience_id": audienceID,
			"error_code":  resp.ErrorCode,
		}).WithError(err).Warn("subscription: subscribe failed")
		s.record(ctx, resp, audienceID, email, false)
		return resp
	}

	if opts.Tags != nil {
		s.syncTags(ctx, audienceID, email, result, member, opts.Tags)
	}

	resp := succeeded(domain.ActionSubscribe, MsgSubscribed, values, memberPayload(result))
	s.record(ctx, resp, audienceID, email, false)
	return resp
}

// Unsubscribe sets the member's status to unsubscribed.
func (s *Service) Unsubscribe(ctx context.Context, email, audienceID string) domain.Response {
	values := map[string]any{"email": email}

	if email == "" || !s.validator.Validate(ctx, email) {
		return invalidEmail(domain.ActionUnsubscribe, values)
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return missingCredentials(domain.ActionUnsubscribe, values)
	}

	result, err := s.api.UpdateMember(ctx, audienceID, email, domain.MemberRequest{Status: domain.StatusUnsubscribed})
	if err != nil {
		resp := remoteFailure(domain.ActionUnsubscribe, err, values)
		s.log.WithFields(logrus.Fields{
			"audience_id": audienceID,
			"error_code":  resp.ErrorCode,
		}).WithError(err).Warn("subscription: unsubscribe failed")
		s.record(ctx, resp, audienceID, email, false)
		return resp
	}

	resp := succeeded(domain.ActionUnsubscribe, MsgUnsubscribed, values, memberPayload(result))
	s.record(ctx, resp, audienceID, email, false)
	return resp
}

// Delete removes the member. With permanent set the member is erased and
// cannot be re-imported; otherwise it is archived.
func (s *Service) Delete(ctx context.Context, email, audienceID string, permanent bool) domain.Response {
	values := map[string]any{"email": email, "permanent": permanent}

	if email == "" || !s.validator.Validate(ctx, email) {
		return invalidEmail(domain.ActionDelete, values)
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return missingCredentials(domain.ActionDelete, values)
	}

	var err error
	if permanent {
		err = s.api.DeleteMemberPermanent(ctx, audienceID, email)
	} else {
		err = s.api.ArchiveMember(ctx, audienceID, email)
	}
	if err != nil {
		resp := remoteFailure(domain.ActionDelete, err, values)
		s.log.WithFields(logrus.Fields{
			"audience_id": audienceID,
			"permanent":   permanent,
			"error_code":  resp.ErrorCode,
		}).WithError(err).Warn("subscription: delete failed")
		s.record(ctx, resp, audienceID, email, permanent)
		return resp
	}

	resp := succeeded(domain.ActionDelete, MsgDeleted, values, nil)
	s.record(ctx, resp, audienceID, email, permanent)
	return resp
}

// existingMember fetches the member for reconciliation. Absence is normal.
func (s *Service) existingMember(ctx context.Context, audienceID, email string) *domain.Member {
	member, err := s.api.GetMember(ctx, audienceID, email)
	if err != nil {
		if !errors.Is(err, mailchimp.ErrNotFound) {
			s.log.WithField("audience_id", audienceID).WithError(err).
				Warn("subscription: member lookup failed, continuing without current state")
		}
		return nil
	}
	return member
}

// reconcileInterests loads the exclusive categories and merges the request
// into the member's interests. If categories cannot be loaded the request is
// overlaid without resets.
func (s *Service) reconcileInterests(ctx context.Context, audienceID string, member *domain.Member, requested domain.InterestSelection) map[string]bool {
	var current map[string]bool
	if member != nil {
		current = member.Interests
	}

	categories, err := s.interestCategories(ctx, audienceID, true)
	if err != nil {
		s.log.WithField("audience_id", audienceID).WithError(err).
			Warn("subscription: interest categories unavailable, applying requested interests without resets")
		categories = nil
	}
	return ReconcileInterests(current, categories, requested)
}

// interestCategories lists categories with their interests. With
// exclusiveOnly, interests are fetched only for radio and dropdown categories.
func (s *Service) interestCategories(ctx context.Context, audienceID string, exclusiveOnly bool) ([]domain.InterestCategory, error) {
	categories, err := s.api.GetInterestCategories(ctx, audienceID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.InterestCategory, 0, len(categories))
	for _, cat := range categories {
		if exclusiveOnly && !cat.IsExclusive() {
			continue
		}
		interests, err := s.api.GetCategoryInterests(ctx, audienceID, cat.ID)
		if err != nil {
			return nil, err
		}
		cat.Interests = interests
		out = append(out, cat)
	}
	return out, nil
}

// syncTags pushes the reconciled tag set. Current tags come from the upsert
// result, or the pre-fetched member when the result carries none.
func (s *Service) syncTags(ctx context.Context, audienceID, email string, result, member *domain.Member, requested []string) {
	var current []domain.MemberTag
	switch {
	case result != nil && result.Tags != nil:
		current = result.Tags
	case member != nil:
		current = member.Tags
	}

	tags := ReconcileTags(current, requested)
	if len(tags) == 0 {
		return
	}
	if err := s.api.UpdateMemberTags(ctx, audienceID, email, tags); err != nil {
		s.log.WithFields(logrus.Fields{
			"audience_id": audienceID,
			"tags":        len(tags),
		}).WithError(err).Error("subscription: tag update failed, subscription kept")
	}
}

// record hands an event to the sink. Failures are logged only.
func (s *Service) record(ctx context.Context, resp domain.Response, audienceID, email string, permanent bool) {
	if s.events == nil {
		return
	}
	evt := domain.SubscriptionEvent{
		ID:         uuid.NewString(),
		Action:     resp.Action,
		AudienceID: audienceID,
		EmailHash:  mailchimp.MemberHash(email),
		Permanent:  permanent,
		Success:    resp.Success,
		ErrorCode:  resp.ErrorCode,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Record(ctx, evt); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":   evt.Action,
			"event_id": evt.ID,
		}).WithError(err).Warn("subscription: failed to record event")
	}
}

func subscribeValues(email string, opts domain.SubscriptionOptions) map[string]any {
	values := map[string]any{"email": email}
	emailType := opts.EmailType
	if emailType == "" {
		emailType = domain.DefaultEmailType
	}
	values["email_type"] = emailType
	if opts.Language != "" {
		values["language"] = opts.Language
	}
	if len(opts.MergeFields) > 0 {
		values["merge_fields"] = opts.MergeFields
	}
	if len(opts.Interests) > 0 {
		values["interests"] = map[string]bool(opts.Interests)
	}
	if opts.MarketingPermissions != nil {
		values["marketing_permissions"] = opts.MarketingPermissions
	}
	if opts.Tags != nil {
		values["tags"] = opts.Tags
	}
	if opts.VIP != nil {
		values["vip"] = *opts.VIP
	}
	return values
}

// memberPayload is the remote document for a member, or nil.
func memberPayload(m *domain.Member) any {
	if m == nil || m.Payload == nil {
		return nil
	}
	return m.Payload
}
