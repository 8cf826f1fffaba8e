package domain

// Action names the operation a Response belongs to.
type Action string

const (
	ActionSubscribe         Action = "subscribe"
	ActionUnsubscribe       Action = "unsubscribe"
	ActionDelete            Action = "delete"
	ActionGetMember         Action = "get-member"
	ActionGetAudience       Action = "get-audience"
	ActionCheckIfSubscribed Action = "check-if-subscribed"
	ActionCheckIfInList     Action = "check-if-in-list"

	ActionGetInterestGroups       Action = "get-interest-groups"
	ActionGetMemberTags           Action = "get-member-tags"
	ActionGetMarketingPermissions Action = "get-marketing-permissions"
)

// Result codes carried in Response.ErrorCode. Structured remote errors pass
// their own HTTP-like status through instead.
const (
	CodeSuccess            = 200
	CodeInvalidEmail       = 1000
	CodeMissingCredentials = 2000
	CodeUnparseableError   = 9999
)

// Response is the uniform result of every mutating operation.
type Response struct {
	Action    Action         `json:"action"`
	Success   bool           `json:"success"`
	ErrorCode int            `json:"errorCode"`
	Message   string         `json:"message"`
	Values    map[string]any `json:"values,omitempty"`
	Response  any            `json:"response,omitempty"`
}

// LookupResponse wraps the result of a member or audience lookup for callers
// that need an envelope rather than a nil check.
type LookupResponse struct {
	Action   Action `json:"action"`
	Success  bool   `json:"success"`
	Response any    `json:"response"`
}
