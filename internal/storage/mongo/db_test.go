package mongo

import "testing"

func TestDatabaseFromURL(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://127.0.0.1:27017/airbnb", "airbnb"},
		{"mongodb://user:pw@db.internal:27017/wanderlust?authSource=admin", "wanderlust"},
		{"mongodb://127.0.0.1:27017", DefaultDatabase},
		{"mongodb://127.0.0.1:27017/", DefaultDatabase},
		{"::not a url", DefaultDatabase},
	}

	for _, tt := range tests {
		if got := DatabaseFromURL(tt.uri); got != tt.want {
			t.Errorf("DatabaseFromURL(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
