package subscription

import (
	"context"

	"github.com/ignite/audience-subscribe/internal/domain"
)

// RemoteAPI is the subset of the mailing-list API the service calls.
// Implemented by *mailchimp.Client.
type RemoteAPI interface {
	GetAudience(ctx context.Context, audienceID string) (*domain.Audience, error)
	GetMember(ctx context.Context, audienceID, email string) (*domain.Member, error)
	SetMember(ctx context.Context, audienceID, email string, req domain.MemberRequest) (*domain.Member, error)
	UpdateMember(ctx context.Context, audienceID, email string, req domain.MemberRequest) (*domain.Member, error)
	ArchiveMember(ctx context.Context, audienceID, email string) error
	DeleteMemberPermanent(ctx context.Context, audienceID, email string) error
	GetInterestCategories(ctx context.Context, audienceID string) ([]domain.InterestCategory, error)
	GetCategoryInterests(ctx context.Context, audienceID, categoryID string) ([]domain.Interest, error)
	GetMemberTags(ctx context.Context, audienceID, email string) ([]domain.MemberTag, error)
	UpdateMemberTags(ctx context.Context, audienceID, email string, tags []domain.Tag) error
}

// EmailValidator gates every operation that takes an address.
// Implemented by *emailcheck.Validator.
type EmailValidator interface {
	Validate(ctx context.Context, email string) bool
}

// EventSink receives a record of every mutating operation that reached the
// remote API. Errors are logged and otherwise ignored.
type EventSink interface {
	Record(ctx context.Context, evt domain.SubscriptionEvent) error
}

// Settings are the credentials and defaults resolved once at startup.
type Settings struct {
	APIKey     string
	AudienceID string
	// LegacyListID is used when AudienceID is empty. Deprecated.
	LegacyListID string
	DoubleOptIn  bool
}
