package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Session is the read-only authentication context: the bearer token and
// the active school identifier. Components read it; none mutate it.
type Session struct {
	token    string
	schoolID string
	claims   *Claims
}

// Identity describes who is signed in. Guest is true when no usable
// claims could be decoded.
type Identity struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	SchoolID string `json:"school_id,omitempty"`
	Guest    bool   `json:"guest"`
}

// NewSession builds a session from a token and an optional explicit school
// id. When schoolID is empty the token's active_school_id claim is used.
// An explicit school id that is not a UUID is an error; an invalid claim
// is ignored.
func NewSession(token, schoolID string) (Session, error) {
	s := Session{token: strings.TrimSpace(token)}
	s.claims = DecodeClaims(s.token)

	if id := strings.TrimSpace(schoolID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return Session{}, fmt.Errorf("invalid school id %q: %w", id, err)
		}
		s.schoolID = parsed.String()
	} else if s.claims != nil && s.claims.ActiveSchoolID != "" {
		if parsed, err := uuid.Parse(s.claims.ActiveSchoolID); err == nil {
			s.schoolID = parsed.String()
		}
	}
	return s, nil
}

// Token returns the raw bearer token.
func (s Session) Token() string { return s.token }

// SchoolID returns the active school id, or "" when none is known.
func (s Session) SchoolID() string { return s.schoolID }

// Claims returns the decoded claims, or nil for a guest.
func (s Session) Claims() *Claims { return s.claims }

// Authenticated reports whether a token is present. Presence is all the
// client can check; the API validates it.
func (s Session) Authenticated() bool { return s.token != "" }

// Identity returns the signed-in identity or a guest identity.
func (s Session) Identity() Identity {
	if s.claims == nil {
		return Identity{Name: "Guest", SchoolID: s.schoolID, Guest: true}
	}
	name := s.claims.DisplayName()
	if name == "" {
		name = "User"
	}
	return Identity{
		Name:     name,
		Email:    s.claims.Email,
		SchoolID: s.schoolID,
	}
}

// Initials returns up to two uppercase initials for avatar-style badges.
func (id Identity) Initials() string {
	fields := strings.Fields(id.Name)
	var out []rune
	for _, f := range fields {
		r := []rune(f)
		out = append(out, r[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return strings.ToUpper(string(out))
}
