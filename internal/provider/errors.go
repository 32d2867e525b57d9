package provider

import "errors"

var (
	// ErrUnsupportedProvider is returned when a provider name is not known
	// for the requested capability.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrMissingCredential is returned when a provider requires an API key
	// and none was configured. Resolution fails before any network call.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMissingReference is returned when a voice-cloning provider is
	// configured without a reference audio sample.
	ErrMissingReference = errors.New("missing reference audio")
)
