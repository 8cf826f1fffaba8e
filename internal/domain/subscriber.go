package domain

import "encoding/json"

// MemberStatus enumerates the states a member can be in on the remote audience.
type MemberStatus string

const (
	StatusSubscribed    MemberStatus = "subscribed"
	StatusUnsubscribed  MemberStatus = "unsubscribed"
	StatusPending       MemberStatus = "pending"
	StatusCleaned       MemberStatus = "cleaned"
	StatusTransactional MemberStatus = "transactional"
	StatusArchived      MemberStatus = "archived"
)

// Member is a read-only snapshot of a subscriber on an audience, fetched fresh
// from the remote service every time it is needed.
type Member struct {
	ID                   string                      `json:"id"`
	EmailAddress         string                      `json:"email_address"`
	Status               MemberStatus                `json:"status"`
	EmailType            string                      `json:"email_type,omitempty"`
	Language             string                      `json:"language,omitempty"`
	VIP                  bool                        `json:"vip"`
	MergeFields          map[string]any              `json:"merge_fields,omitempty"`
	Interests            map[string]bool             `json:"interests,omitempty"`
	MarketingPermissions []MemberMarketingPermission `json:"marketing_permissions,omitempty"`
	Tags                 []MemberTag                 `json:"tags,omitempty"`

	// Payload is the full remote document with hypermedia links removed.
	Payload json.RawMessage `json:"-"`
}

// MemberMarketingPermission is a consent flag as stored on the member.
type MemberMarketingPermission struct {
	ID      string `json:"marketing_permission_id"`
	Text    string `json:"text,omitempty"`
	Enabled bool   `json:"enabled"`
}

// MemberTag is a tag currently attached to a member.
type MemberTag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Audience is the remote service's mailing list.
type Audience struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"-"`
}
