package apiclient

import (
	"errors"
	"fmt"
)

// ErrNetwork indicates the request never produced an HTTP response.
var ErrNetwork = errors.New("apiclient: network error")

// APIError is a non-2xx response from the product API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("apiclient: api returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("apiclient: api returned status %d", e.Status)
}

// AsAPIError unwraps err into an *APIError if one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
