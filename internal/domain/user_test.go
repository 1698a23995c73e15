package domain

import (
	"testing"
	"time"
)

func TestSession_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expired", time.Now().Add(-time.Hour), true},
		{"not expired", time.Now().Add(time.Hour), false},
		{"just expired", time.Now().Add(-time.Millisecond), true},
		{"about to expire", time.Now().Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &Session{
				ID:        "s1",
				ExpiresAt: tt.expiresAt,
			}
			if got := session.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *Session
	if nilSession.IsAuthenticated() {
		t.Error("nil session should not be authenticated")
	}

	anon := &Session{ID: "s1", ReturnTo: "/listings/new"}
	if anon.IsAuthenticated() {
		t.Error("anonymous session should not be authenticated")
	}

	signedIn := &Session{ID: "s2", UserID: "u1", Username: "ada"}
	if !signedIn.IsAuthenticated() {
		t.Error("session with a user should be authenticated")
	}
}

func TestListing_FieldsRoundTrip(t *testing.T) {
	l := &Listing{ID: "abc", Title: "Cabin", Price: 120, Reviews: []string{"r1"}}
	f := l.Fields()
	f.Title = "Lodge"
	f.Price = 200
	l.Apply(f)

	if l.Title != "Lodge" || l.Price != 200 {
		t.Errorf("Apply did not overwrite fields: %+v", l)
	}
	if l.ID != "abc" || len(l.Reviews) != 1 {
		t.Errorf("Apply touched non-editable fields: %+v", l)
	}
}
