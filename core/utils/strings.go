package utils

import "strings"

// NormalizeEmail trims and lower-cases an email address for membership checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ContainsEmail reports whether email is in list, ignoring case and surrounding space.
// An empty email is never contained.
func ContainsEmail(list []string, email string) bool {
	target := NormalizeEmail(email)
	if target == "" {
		return false
	}
	for _, candidate := range list {
		if NormalizeEmail(candidate) == target {
			return true
		}
	}
	return false
}

// NormalizeEmails lower-cases every address and drops blanks and duplicates, keeping order.
func NormalizeEmails(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, e := range list {
		n := NormalizeEmail(e)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// RemoveEmail returns list without any entry equal to email (case-insensitive).
func RemoveEmail(list []string, email string) []string {
	target := NormalizeEmail(email)
	out := make([]string, 0, len(list))
	for _, e := range list {
		if NormalizeEmail(e) != target {
			out = append(out, e)
		}
	}
	return out
}
