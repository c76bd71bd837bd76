package errx

import "net/http"

// ErrNotConfigured signals that a subsystem was constructed without its
// credentials and is disabled for the lifetime of the process.
var ErrNotConfigured = New(nil, http.StatusServiceUnavailable, NotConfiguredMessage)

// WrapRouting maps routing backend transport failures to the unified Error type.
func WrapRouting(err error) *Error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, RoutingErrorMessage)
}
