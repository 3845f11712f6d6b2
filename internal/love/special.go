package love

import "strings"

// IsSpecialChat reports whether every partner group is matched by some
// participant. A group matches when a participant name contains any of its
// aliases, case-insensitively.
func IsSpecialChat(participants []string, partners [][]string) bool {
	if len(partners) == 0 {
		return false
	}
	lower := make([]string, len(participants))
	for i, p := range participants {
		lower[i] = strings.ToLower(p)
	}
	for _, group := range partners {
		if !anyContains(lower, group) {
			return false
		}
	}
	return true
}

func anyContains(names, aliases []string) bool {
	for _, n := range names {
		for _, a := range aliases {
			if a != "" && strings.Contains(n, strings.ToLower(a)) {
				return true
			}
		}
	}
	return false
}
