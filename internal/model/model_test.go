package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"pending":   StatusPending,
		" Accepted": StatusAccepted,
		"REJECTED":  StatusRejected,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}

func TestDisplayName(t *testing.T) {
	p := Principal{FirstName: "Ada", LastName: "Lovelace"}
	if p.DisplayName() != "Ada Lovelace" {
		t.Fatalf("unexpected display name %q", p.DisplayName())
	}
}

func TestPrincipalJSONOmitsPasswordHash(t *testing.T) {
	data, err := json.Marshal(Principal{ID: "p1", Email: "ada@example.com", PasswordHash: "$2a$10$secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "PasswordHash") {
		t.Fatalf("password hash leaked: %s", data)
	}
}
