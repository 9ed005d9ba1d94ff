package social

import (
	"fmt"
	"net/http"
)

// Envelope success flags. The wire format carries the flag as a string.
const (
	flagSuccess = "true"
	flagFailure = "false"
)

// Response messages. Business outcomes (including not-found and
// already-exists) are phrased for the caller and returned with HTTP 200;
// only malformed emails and store failures map to HTTP 400.
const (
	MsgInvalidEmail       = "Invalid email format {%s}. Please provide a valid email."
	MsgUserNotFound       = "Cannot find email {%s}. Please try another email"
	MsgSubscriberNotFound = "Subscriber user {%s} not found, please try another email."
	MsgTargetNotFound     = "Target user {%s} not found, please try another email."
	MsgFriendList         = "Friend list retrieved successfully."
	MsgCommonFriends      = "Common Friend list retrieved successfully."
	MsgConnected          = "The connection is established successfully."
	MsgAlreadyFriends     = "%s and %s are already friends. There is no need to create a new friend connection."
	MsgSubscribed         = "Subscribed successfully."
	MsgAlreadySubscribed  = "They already have a subscription."
	MsgBlocked            = "{%s} blocks {%s} successfully."
	MsgAlreadyBlocked     = "{%s} already blocks {%s}."
	MsgEligibleRecipients = "Retrieves the list successfully."
)

// Result is the envelope every engine operation returns. Status is the
// HTTP classification for the transport layer and is not serialized.
type Result struct {
	Success string      `json:"success,omitempty"`
	Message string      `json:"message"`
	Result  interface{} `json:"result,omitempty"`
	Status  int         `json:"-"`
}

// FriendList is the payload for every email-list response.
type FriendList struct {
	Friends []string `json:"friends"`
	Count   int      `json:"count"`
}

func okResult(message string, payload interface{}) *Result {
	return &Result{
		Success: flagSuccess,
		Message: message,
		Result:  payload,
		Status:  http.StatusOK,
	}
}

func invalidEmailResult(email string) *Result {
	return &Result{
		Success: flagFailure,
		Message: fmt.Sprintf(MsgInvalidEmail, email),
		Status:  http.StatusBadRequest,
	}
}

func notFoundResult(format, email string) *Result {
	return &Result{
		Success: flagSuccess,
		Message: fmt.Sprintf(format, email),
		Status:  http.StatusOK,
	}
}

func failureResult(err error) *Result {
	return &Result{
		Success: flagFailure,
		Message: err.Error(),
		Status:  http.StatusBadRequest,
	}
}
