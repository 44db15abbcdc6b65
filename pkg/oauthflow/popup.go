package oauthflow

import "encoding/json"

// Popup message types. The popup posts exactly one of these to its opener
// and closes; the opener performs the exchange. The message is always
// targeted at the console's own origin, never a wildcard.
const (
	MessageTypeSuccess = "oauth-success"
	MessageTypeError   = "oauth-error"
)

// PopupMessage is the contract between the popup emitter and the opener
// listener.
type PopupMessage struct {
	Type             string   `json:"type"`
	Provider         Provider `json:"provider,omitempty"`
	Code             string   `json:"code,omitempty"`
	State            string   `json:"state,omitempty"`
	Error            string   `json:"error,omitempty"`
	ErrorDescription string   `json:"error_description,omitempty"`
}

// NewPopupMessage converts a parsed callback into the message the popup
// posts to its opener. Provider errors and malformed callbacks become error
// messages; anything carrying a code becomes a success message, with state
// validation deferred to the opener.
func NewPopupMessage(provider Provider, result CallbackResult) PopupMessage {
	if result.Error != "" {
		return PopupMessage{
			Type:             MessageTypeError,
			Provider:         provider,
			Error:            result.Error,
			ErrorDescription: result.ErrorDescription,
		}
	}
	if result.Code == "" {
		return PopupMessage{
			Type:     MessageTypeError,
			Provider: provider,
			Error:    "malformed_callback",
		}
	}
	return PopupMessage{
		Type:     MessageTypeSuccess,
		Provider: provider,
		Code:     result.Code,
		State:    result.State,
	}
}

// JSON renders the message for embedding into the emitter page.
func (m PopupMessage) JSON() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
