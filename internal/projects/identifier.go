package projects

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "mcphubs/internal/errors"
)

// Identifier addresses a project either by GitHub id or by owner and name.
type Identifier struct {
	GithubID int64
	Owner    string
	Name     string
}

func (id Identifier) String() string {
	if id.GithubID != 0 {
		return strconv.FormatInt(id.GithubID, 10)
	}
	return id.Owner + "/" + id.Name
}

// ParseIdentifier accepts a numeric GitHub id, "owner/name" or the slug form "owner--name".
// GitHub logins cannot contain "--", so the first occurrence separates owner from name.
func ParseIdentifier(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identifier{}, fmt.Errorf("%w: empty", apperrors.ErrInvalidIdentifier)
	}

	if isDigits(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Identifier{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, raw)
		}
		return Identifier{GithubID: n}, nil
	}

	owner, name, ok := strings.Cut(raw, "/")
	if !ok {
		owner, name, ok = strings.Cut(raw, "--")
	}
	if !ok || !validOwner(owner) || !validName(name) {
		return Identifier{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, raw)
	}
	return Identifier{Owner: owner, Name: name}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validOwner(s string) bool {
	if s == "" || len(s) > 39 || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !isAlnum(r) && r != '-' {
			return false
		}
	}
	return true
}

func validName(s string) bool {
	if s == "" || len(s) > 100 || s == "." || s == ".." {
		return false
	}
	for _, r := range s {
		if !isAlnum(r) && r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
