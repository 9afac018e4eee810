package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("test-secret-for-token-signing-0123")

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	token, expiresAt, err := issuer.Issue([]string{RoleDoctor})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if time.Until(expiresAt) < 55*time.Minute {
		t.Errorf("expected expiry about an hour out, got %v", expiresAt)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != RoleDoctor {
		t.Errorf("expected roles [doctor], got %v", claims.Roles)
	}
	if claims.Subject == "" {
		t.Error("expected a subject to be set")
	}
}

func TestIssue_FreshSubjectPerToken(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	t1, _, err := issuer.Issue([]string{RoleDoctor})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	t2, _, err := issuer.Issue([]string{RoleDoctor})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	c1, _ := ParseToken(testSecret, t1)
	c2, _ := ParseToken(testSecret, t2)
	if c1.Subject == c2.Subject {
		t.Error("expected distinct subjects for separate sessions")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	token, _, err := issuer.Issue([]string{RolePharmacist})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := ParseToken([]byte("a-different-secret-entirely-xxxx"), token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	issuer := NewIssuer(testSecret, -time.Minute)
	token, _, err := issuer.Issue([]string{RoleDoctor})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := ParseToken(testSecret, token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
