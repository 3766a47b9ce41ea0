package models

import "errors"

// Error kinds surfaced to callers. Provider-specific failures are translated
// into one of these before leaving the core; callers never see a raw provider
// error. Match with errors.Is.
var (
	// ErrNoProviderAvailable means neither provider is usable for the request:
	// hardware absent, authorization denied, or classification returned
	// unavailable. Not retryable; a capability gap.
	ErrNoProviderAvailable = errors.New("steps: no provider available")

	// ErrPermissionDenied is an explicit user denial, distinguished from a
	// not-yet-decided authorization state.
	ErrPermissionDenied = errors.New("steps: permission denied")

	// ErrDataNotAvailable means a provider was reachable and authorized but
	// returned no data for the requested window.
	ErrDataNotAvailable = errors.New("steps: data not available")
)
