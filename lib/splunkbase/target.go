package splunkbase

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTarget = errors.New("definition for the app to download must be in the format {app_id}-{version}")

// Target identifies one release of one Splunkbase app.
type Target struct {
	AppId   string
	Version string
}

// ParseTarget parses an `{app_id}-{version}` definition.
func ParseTarget(app string) (Target, error) {
	parts := strings.Split(app, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Target{}, fmt.Errorf("%w: got %q", ErrInvalidTarget, app)
	}
	return Target{AppId: parts[0], Version: parts[1]}, nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s-%s", t.AppId, t.Version)
}
