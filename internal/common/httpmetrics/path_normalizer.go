package httpmetrics

import "strings"

// NormalizePath collapses path parameters so metrics labels stay bounded:
// /users/alice/to -> /users/{username}/to, /messages/<uuid> -> /messages/{id}.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		switch parts[i-1] {
		case "users":
			parts[i] = "{username}"
		case "messages":
			parts[i] = "{id}"
		}
	}

	return strings.Join(parts, "/")
}
