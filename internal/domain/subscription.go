package domain

import "time"

// DefaultEmailType is used when the caller does not ask for a format.
const DefaultEmailType = "html"

// SubscriptionOptions carries everything a form may send along with an email.
type SubscriptionOptions struct {
	EmailType            string            `json:"email_type"`
	Language             string            `json:"language,omitempty"`
	MergeFields          map[string]any    `json:"merge_fields,omitempty"`
	Interests            InterestSelection `json:"interests,omitempty"`
	MarketingPermissions []string          `json:"marketing_permissions,omitempty"`
	// Tags is nil when no tags were submitted. An empty slice deactivates
	// every tag on the member.
	Tags []string `json:"tags"`
	VIP  *bool    `json:"vip,omitempty"`
}

// TagStatus is the state pushed for a tag.
type TagStatus string

const (
	TagActive   TagStatus = "active"
	TagInactive TagStatus = "inactive"
)

// Tag is a tag state sent to the remote tags endpoint.
type Tag struct {
	Name   string    `json:"name"`
	Status TagStatus `json:"status"`
}

// MarketingPermissionUpdate is the wire shape for a consent change.
type MarketingPermissionUpdate struct {
	ID      string `json:"marketing_permission_id"`
	Enabled bool   `json:"enabled"`
}

// SubscriptionEvent records the outcome of a mutating operation.
// Only the member hash is kept; the address itself never leaves the request.
type SubscriptionEvent struct {
	ID         string    `json:"id"`
	Action     Action    `json:"action"`
	AudienceID string    `json:"audience_id"`
	EmailHash  string    `json:"email_hash"`
	Permanent  bool      `json:"permanent,omitempty"`
	Success    bool      `json:"success"`
	ErrorCode  int       `json:"error_code"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MemberRequest is the body of a member upsert or partial update. Empty
// fields are left out so a PATCH touches only what it names.
type MemberRequest struct {
	EmailAddress         string                      `json:"email_address,omitempty"`
	Status               MemberStatus                `json:"status,omitempty"`
	StatusIfNew          MemberStatus                `json:"status_if_new,omitempty"`
	EmailType            string                      `json:"email_type,omitempty"`
	Language             string                      `json:"language,omitempty"`
	VIP                  *bool                       `json:"vip,omitempty"`
	MergeFields          map[string]any              `json:"merge_fields,omitempty"`
	Interests            map[string]bool             `json:"interests,omitempty"`
	MarketingPermissions []MarketingPermissionUpdate `json:"marketing_permissions,omitempty"`
}
