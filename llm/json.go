package llm

import "strings"

// StripCodeFence removes a markdown code fence wrapper if the model added one
// around a JSON payload.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "```json") {
		parts := strings.SplitN(s, "```json", 2)
		s = parts[1]
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
	} else if strings.Contains(s, "```") {
		parts := strings.SplitN(s, "```", 3)
		if len(parts) >= 2 {
			s = parts[1]
		}
	}
	return strings.TrimSpace(s)
}
