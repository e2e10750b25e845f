package provider

import "errors"

// Common errors returned by the provider package
var (
	// ErrProviderCall is returned when a vendor call fails, either at the
	// transport layer or with a non-2xx response. The wrapped message
	// carries the vendor's reported error when extractable.
	ErrProviderCall = errors.New("provider call failed")

	// ErrUnsupportedProvider is returned when an account references a
	// provider kind no adapter has been registered for.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
