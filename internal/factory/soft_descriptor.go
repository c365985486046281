package factory

import (
	"html"
	"regexp"
)

const maxSoftDescriptorLength = 22

var softDescriptorDisallowed = regexp.MustCompile(`[^a-zA-Z0-9 *\-.]`)

// SanitizeSoftDescriptor decodes HTML entities, drops characters the
// processor rejects and cuts the result to 22 characters.
func SanitizeSoftDescriptor(s string) string {
	s = softDescriptorDisallowed.ReplaceAllString(html.UnescapeString(s), "")
	if len(s) > maxSoftDescriptorLength {
		s = s[:maxSoftDescriptorLength]
	}
	return s
}
