package share_test

import (
	"errors"
	"testing"
	"time"

	"weekplan/internal/share"
)

func TestIssueAndVerify(t *testing.T) {
	s := share.Signer{Secret: []byte("test-secret")}
	token, err := s.Issue("prod-1", "week-2025-3-17", "17-03-2025--to--23-03-2025")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ProductID != "prod-1" || claims.WeekID != "week-2025-3-17" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Slug != "17-03-2025--to--23-03-2025" {
		t.Fatalf("slug = %q", claims.Slug)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := share.Signer{Secret: []byte("right")}.Issue("p", "w", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = share.Signer{Secret: []byte("wrong")}.Verify(token)
	if !errors.Is(err, share.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issued := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	s := share.Signer{
		Secret: []byte("secret"),
		TTL:    time.Hour,
		Now:    func() time.Time { return issued },
	}
	token, err := s.Issue("p", "w", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	s.Now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := s.Verify(token); !errors.Is(err, share.ErrInvalidToken) {
		t.Fatalf("expired token err = %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := share.Signer{Secret: []byte("secret")}
	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := s.Verify(token); !errors.Is(err, share.ErrInvalidToken) {
			t.Fatalf("token %q err = %v", token, err)
		}
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	if _, err := (share.Signer{}).Issue("p", "w", ""); err == nil {
		t.Fatal("missing secret must fail")
	}
}
