package profile

import (
	"fmt"
	"regexp"
	"strings"
)

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName checks that name is usable as a directory under profiles/.
// A leading hyphen is refused so the name never reads as a flag.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must match ^[a-z0-9_-]{1,64}$", name)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("invalid profile name %q: must not start with '-'", name)
	}
	return nil
}
