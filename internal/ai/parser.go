package ai

import "strings"

// ParseFields extracts the structured KEY: value lines the prompts ask the
// model to reply with. Keys are uppercased; only the first occurrence of a
// key wins. Lines without a colon, or with a spaced key (ordinary prose),
// are ignored.
func ParseFields(text string) map[string]string {
	fields := make(map[string]string)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}

		if _, ok := fields[key]; !ok {
			fields[key] = strings.TrimSpace(line[idx+1:])
		}
	}

	return fields
}
