package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/users", "/users"},
		{"/users/alice", "/users/{username}"},
		{"/users/alice/to", "/users/{username}/to"},
		{"/users/alice/from", "/users/{username}/from"},
		{"/messages", "/messages"},
		{"/messages/7b6ee8e2-3f5a-4a0f-9c1e-0b6a1a2b3c4d", "/messages/{id}"},
		{"/messages/7b6ee8e2-3f5a-4a0f-9c1e-0b6a1a2b3c4d/read", "/messages/{id}/read"},
		{"/login", "/login"},
		{"/register", "/register"},
		{"/users/", "/users/"},
		{"", "/"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.path); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
