package oauthflow

import "net/url"

// CallbackResult is the parsed query string of a provider redirect. Parsed
// once per callback; exactly one of Code or Error should be present in a
// well-formed response.
type CallbackResult struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// ParseCallback extracts the OAuth callback parameters from a query string.
func ParseCallback(query url.Values) CallbackResult {
	return CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}
}

// Check classifies structurally invalid callbacks before any other work.
// A provider-reported error wins; a response with neither code nor error is
// a protocol violation. A nil return means the callback is well-formed and
// carries a code.
func (c CallbackResult) Check() *FlowError {
	if c.Error != "" {
		detail := c.Error
		if c.ErrorDescription != "" {
			detail += ": " + c.ErrorDescription
		}
		return newFlowError(ClassProviderDenied, detail, nil)
	}
	if c.Code == "" {
		return newFlowError(ClassMalformedCallback, "", nil)
	}
	return nil
}
