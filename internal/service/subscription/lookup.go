package subscription

import (
	"context"
	"errors"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/mailchimp"
)

// GetMemberByEmail returns the member, or nil when the address is invalid,
// credentials are missing, the member does not exist or the call fails.
func (s *Service) GetMemberByEmail(ctx context.Context, email, audienceID string) *domain.Member {
	if email == "" || !s.validator.Validate(ctx, email) {
		return nil
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return nil
	}

	return s.fetchMember(ctx, audienceID, email)
}

func (s *Service) fetchMember(ctx context.Context, audienceID, email string) *domain.Member {
	member, err := s.api.GetMember(ctx, audienceID, email)
	if err != nil {
		s.logLookupError(err, "member", audienceID)
		return nil
	}
	return member
}

// GetAudienceByID returns audience metadata, or nil.
func (s *Service) GetAudienceByID(ctx context.Context, audienceID string) *domain.Audience {
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return nil
	}

	audience, err := s.api.GetAudience(ctx, audienceID)
	if err != nil {
		s.logLookupError(err, "audience", audienceID)
		return nil
	}
	return audience
}

// GetInterestGroups returns every interest category of the audience with its
// interests, or nil.
func (s *Service) GetInterestGroups(ctx context.Context, audienceID string) []domain.InterestCategory {
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return nil
	}

	categories, err := s.interestCategories(ctx, audienceID, false)
	if err != nil {
		s.logLookupError(err, "interest categories", audienceID)
		return nil
	}
	return categories
}

// GetMemberTagsByEmail returns the member's tags, or nil.
func (s *Service) GetMemberTagsByEmail(ctx context.Context, email, audienceID string) []domain.MemberTag {
	if email == "" || !s.validator.Validate(ctx, email) {
		return nil
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return nil
	}

	tags, err := s.api.GetMemberTags(ctx, audienceID, email)
	if err != nil {
		s.logLookupError(err, "member tags", audienceID)
		return nil
	}
	return tags
}

// GetMarketingPermissionsByEmail returns the member's marketing permissions, or nil.
func (s *Service) GetMarketingPermissionsByEmail(ctx context.Context, email, audienceID string) []domain.MemberMarketingPermission {
	member := s.GetMemberByEmail(ctx, email, audienceID)
	if member == nil {
		return nil
	}
	return member.MarketingPermissions
}

func (s *Service) logLookupError(err error, what, audienceID string) {
	entry := s.log.WithField("audience_id", audienceID).WithField("lookup", what)
	if errors.Is(err, mailchimp.ErrNotFound) {
		entry.Debug("subscription: lookup found nothing")
		return
	}
	entry.WithError(err).Warn("subscription: lookup failed")
}
