package subscription

import (
	"context"

	"github.com/ignite/audience-subscribe/internal/domain"
)

// GetListInterestGroups is the pre-audience name of GetInterestGroups.
//
// Deprecated: use GetInterestGroups.
func (s *Service) GetListInterestGroups(ctx context.Context, audienceID string) []domain.InterestCategory {
	s.deprecated("GetListInterestGroups", "use GetInterestGroups")
	return s.GetInterestGroups(ctx, audienceID)
}

// CheckIfSubscribed reports whether the member exists with status subscribed.
// A member with any other status is a successful check with Success false;
// a missing member is CodeInvalidEmail.
//
// Deprecated: use GetMemberByEmail and inspect Status.
func (s *Service) CheckIfSubscribed(ctx context.Context, email, audienceID string) domain.Response {
	s.deprecated("CheckIfSubscribed", "use GetMemberByEmail and check status")

	values := map[string]any{"email": email}
	if email == "" || !s.validator.Validate(ctx, email) {
		return invalidEmail(domain.ActionCheckIfSubscribed, values)
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return missingCredentials(domain.ActionCheckIfSubscribed, values)
	}

	member := s.fetchMember(ctx, audienceID, email)
	switch {
	case member == nil:
		return domain.Response{
			Action:    domain.ActionCheckIfSubscribed,
			ErrorCode: domain.CodeInvalidEmail,
			Message:   MsgNotOnList,
			Values:    values,
		}
	case member.Status == domain.StatusSubscribed:
		return succeeded(domain.ActionCheckIfSubscribed, MsgExistsOnList, values, nil)
	default:
		return domain.Response{
			Action:    domain.ActionCheckIfSubscribed,
			ErrorCode: domain.CodeSuccess,
			Message:   MsgUnsubscribedOnList,
			Values:    values,
		}
	}
}

// CheckIfInList reports whether the member exists, whatever its status.
//
// Deprecated: use GetMemberByEmail.
func (s *Service) CheckIfInList(ctx context.Context, email, audienceID string) domain.Response {
	s.deprecated("CheckIfInList", "use GetMemberByEmail")

	values := map[string]any{"email": email}
	if email == "" || !s.validator.Validate(ctx, email) {
		return invalidEmail(domain.ActionCheckIfInList, values)
	}
	audienceID = s.resolveAudience(audienceID)
	if s.settings.APIKey == "" || audienceID == "" {
		return missingCredentials(domain.ActionCheckIfInList, values)
	}

	if s.fetchMember(ctx, audienceID, email) != nil {
		return succeeded(domain.ActionCheckIfInList, MsgExistsOnList, values, nil)
	}
	return domain.Response{
		Action:    domain.ActionCheckIfInList,
		ErrorCode: domain.CodeInvalidEmail,
		Message:   MsgNotOnList,
		Values:    values,
	}
}

func (s *Service) deprecated(name, hint string) {
	s.log.WithField("deprecated", name).Warnf("subscription: %s is deprecated, %s", name, hint)
}
