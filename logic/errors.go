package logic

import "fmt"

// ValidationError means an incoming activity lacks the minimal structure we require.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid activity: %s", e.Reason)
	}
	return fmt.Sprintf("invalid activity: '%s': %s", e.Field, e.Reason)
}

// AuthenticationFailed carries a generic, peer-visible reason why a signed request was rejected.
type AuthenticationFailed struct {
	Reason string
}

func (e *AuthenticationFailed) Error() string {
	return e.Reason
}
