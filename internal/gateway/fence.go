// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import "strings"

const fence = "```"

// StripFences removes a code fence wrapped around model output, including
// an optional language tag on the opening fence, and trims whitespace.
// Text without a surrounding fence is only trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// Drop the language tag, if any.
			if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, " \t") {
				s = s[nl+1:]
			}
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}
