package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSchoolID = "3f2b8c1e-9a4d-4e5f-8b6a-1c2d3e4f5a6b"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestDecodeClaims(t *testing.T) {
	token := signToken(t, Claims{
		Email:          "amina@imara.ac.ke",
		FullName:       "Amina Otieno",
		ActiveSchoolID: testSchoolID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-1",
		},
	})

	claims := DecodeClaims(token)
	if claims == nil {
		t.Fatal("expected claims, got nil")
	}
	if claims.Email != "amina@imara.ac.ke" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.FullName != "Amina Otieno" {
		t.Errorf("FullName = %q", claims.FullName)
	}
	if claims.ActiveSchoolID != testSchoolID {
		t.Errorf("ActiveSchoolID = %q", claims.ActiveSchoolID)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q", claims.Subject)
	}
}

func TestDecodeClaims_BearerPrefix(t *testing.T) {
	token := signToken(t, Claims{Email: "a@b.c"})
	if c := DecodeClaims("Bearer " + token); c == nil || c.Email != "a@b.c" {
		t.Errorf("expected claims from Bearer-prefixed token, got %+v", c)
	}
}

func TestDecodeClaims_Malformed(t *testing.T) {
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"one part", "abc"},
		{"two parts", "abc.def"},
		{"four parts", "a.b.c.d"},
		{"bad base64", "eyJhbGciOiJIUzI1NiJ9.%%%not-base64%%%.sig"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9." + notJSON + ".sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := DecodeClaims(tt.token); c != nil {
				t.Errorf("DecodeClaims(%q) = %+v, want nil", tt.token, c)
			}
		})
	}
}

func TestDecodeClaims_UnsignedPayloadStillDecodes(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"full_name":"Guest Teacher"}`))
	c := DecodeClaims("header." + payload + ".signature")
	if c == nil || c.FullName != "Guest Teacher" {
		t.Errorf("expected payload to decode regardless of header/signature, got %+v", c)
	}
}

func TestClaims_DisplayName(t *testing.T) {
	tests := []struct {
		claims *Claims
		want   string
	}{
		{nil, ""},
		{&Claims{FullName: "  Amina Otieno "}, "Amina Otieno"},
		{&Claims{Email: "jkamau@school.ke"}, "jkamau"},
		{&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-9"}}, "u-9"},
	}
	for _, tt := range tests {
		if got := tt.claims.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Now()
	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))}}
	future := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}

	if !past.Expired(now) {
		t.Error("expected past expiry to be expired")
	}
	if future.Expired(now) {
		t.Error("expected future expiry to be valid")
	}
	if (&Claims{}).Expired(now) {
		t.Error("expected missing expiry to never expire")
	}
}

func TestNewSession(t *testing.T) {
	token := signToken(t, Claims{FullName: "Amina Otieno", ActiveSchoolID: testSchoolID})

	t.Run("school id from claims", func(t *testing.T) {
		s, err := NewSession(token, "")
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		if !s.Authenticated() {
			t.Error("expected authenticated session")
		}
		if s.SchoolID() != testSchoolID {
			t.Errorf("SchoolID() = %q, want %q", s.SchoolID(), testSchoolID)
		}
	})

	t.Run("explicit school id wins", func(t *testing.T) {
		other := "0b7e3c2a-1111-4222-8333-944455556666"
		s, err := NewSession(token, other)
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		if s.SchoolID() != other {
			t.Errorf("SchoolID() = %q, want %q", s.SchoolID(), other)
		}
	})

	t.Run("invalid explicit school id", func(t *testing.T) {
		if _, err := NewSession(token, "not-a-uuid"); err == nil {
			t.Error("expected error for invalid school id")
		}
	})

	t.Run("invalid claim school id ignored", func(t *testing.T) {
		bad := signToken(t, Claims{ActiveSchoolID: "nope"})
		s, err := NewSession(bad, "")
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		if s.SchoolID() != "" {
			t.Errorf("SchoolID() = %q, want empty", s.SchoolID())
		}
	})
}

func TestSession_Identity(t *testing.T) {
	guest, _ := NewSession("garbage", "")
	id := guest.Identity()
	if !id.Guest || id.Name != "Guest" {
		t.Errorf("expected guest identity, got %+v", id)
	}
	if guest.Claims() != nil {
		t.Error("expected nil claims for malformed token")
	}
	if !guest.Authenticated() {
		t.Error("token presence alone marks the session authenticated")
	}

	empty, _ := NewSession("", "")
	if empty.Authenticated() {
		t.Error("expected empty token to be unauthenticated")
	}

	s, _ := NewSession(signToken(t, Claims{FullName: "Amina Otieno", Email: "amina@imara.ac.ke"}), "")
	id = s.Identity()
	if id.Guest || id.Name != "Amina Otieno" || id.Email != "amina@imara.ac.ke" {
		t.Errorf("unexpected identity %+v", id)
	}
	if got := id.Initials(); got != "AO" {
		t.Errorf("Initials() = %q, want AO", got)
	}
}
