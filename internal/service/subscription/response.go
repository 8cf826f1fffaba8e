package subscription

import (
	"errors"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/mailchimp"
)

// User-facing messages.
const (
	MsgInvalidEmail       = "Invalid email"
	MsgMissingCredentials = "API Key or Audience ID not supplied. Check your settings."
	MsgSubscribed         = "Subscribed successfully"
	MsgUnsubscribed       = "Unsubscribed successfully"
	MsgDeleted            = "Deleted successfully"
	MsgExistsOnList       = "The email address exists on this list"
	MsgUnsubscribedOnList = "The email address was unsubscribed from this list"
	MsgNotOnList          = "The email address does not exist on this list"
)

func invalidEmail(action domain.Action, values map[string]any) domain.Response {
	return domain.Response{
		Action:    action,
		ErrorCode: domain.CodeInvalidEmail,
		Message:   MsgInvalidEmail,
		Values:    values,
	}
}

func missingCredentials(action domain.Action, values map[string]any) domain.Response {
	return domain.Response{
		Action:    action,
		ErrorCode: domain.CodeMissingCredentials,
		Message:   MsgMissingCredentials,
		Values:    values,
	}
}

func succeeded(action domain.Action, message string, values map[string]any, payload any) domain.Response {
	return domain.Response{
		Action:    action,
		Success:   true,
		ErrorCode: domain.CodeSuccess,
		Message:   message,
		Values:    values,
		Response:  payload,
	}
}

// remoteFailure maps a remote error. A structured problem document passes
// its status and title through; anything else becomes CodeUnparseableError
// with the raw message.
func remoteFailure(action domain.Action, err error, values map[string]any) domain.Response {
	resp := domain.Response{Action: action, Values: values}

	var apiErr *mailchimp.APIError
	if errors.As(err, &apiErr) {
		resp.ErrorCode = apiErr.Status
		resp.Message = apiErr.Title
		resp.Response = apiErr
		return resp
	}

	resp.ErrorCode = domain.CodeUnparseableError
	resp.Message = err.Error()
	return resp
}
