package utils

import "strings"

// Truncate cuts s to at most max runes. Ledger columns cap free-text fields
// so a single oversized subject or error cannot blow up a row.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func IsStringInSlice(s string, slice []string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// ExtractAddressFromHeader unwraps the bare address out of the
// "Name <user@domain>" header form.
func ExtractAddressFromHeader(header string) string {
	header = strings.TrimSpace(header)

	if strings.Contains(header, "<") && strings.Contains(header, ">") {
		startIdx := strings.LastIndex(header, "<") + 1
		endIdx := strings.LastIndex(header, ">")
		if startIdx > 0 && endIdx > startIdx {
			header = header[startIdx:endIdx]
		}
	}

	return header
}

// ExtractDomainFromEmail pulls the lowercase domain out of an address,
// tolerating the "Name <user@domain>" header form.
func ExtractDomainFromEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(ExtractAddressFromHeader(email), "@")
	if len(parts) != 2 {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(parts[1]))
}
