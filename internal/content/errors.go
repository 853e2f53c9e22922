package content

import "fmt"

// ValidationError reports a malformed registry entry. It is raised while the
// registry is loaded and is fatal for that load.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid page: %s", e.Reason)
	}
	return fmt.Sprintf("invalid page %q: %s", e.Path, e.Reason)
}
