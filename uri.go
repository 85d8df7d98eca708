package wrap

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const uriScheme = "wrap://"

var authorityPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Uri is the canonical identifier of a wrapper or package: a pair of
// authority and path with string form "wrap://<authority>/<path>".
// Equality is structural and case-sensitive.
type Uri struct {
	authority string
	path      string
}

// ParseUri parses s, accepting an optional "wrap://" prefix. The
// authority is the token up to the first '/'; everything after it is
// the path. Both must be non-empty, and the authority must match
// [A-Za-z0-9_-]+.
func ParseUri(s string) (Uri, error) {
	rest := strings.TrimPrefix(s, uriScheme)
	if rest == "" {
		return Uri{}, UriParseError{Uri: s, Reason: "empty uri"}
	}

	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return Uri{}, UriParseError{Uri: s, Reason: "missing path separator"}
	}

	authority := rest[:idx]
	path := rest[idx+1:]

	if authority == "" {
		return Uri{}, UriParseError{Uri: s, Reason: "empty authority"}
	}
	if path == "" {
		return Uri{}, UriParseError{Uri: s, Reason: "empty path"}
	}
	if !authorityPattern.MatchString(authority) {
		return Uri{}, UriParseError{Uri: s, Reason: fmt.Sprintf("authority %q contains invalid characters", authority)}
	}

	return Uri{authority: authority, path: path}, nil
}

// MustParseUri is ParseUri but panics on error. Intended for tests and
// static configuration literals, not for parsing untrusted input.
func MustParseUri(s string) Uri {
	u, err := ParseUri(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Authority returns the authority component (the token before the
// first '/').
func (u Uri) Authority() string { return u.authority }

// Path returns the path component (everything after the authority's
// '/').
func (u Uri) Path() string { return u.path }

// IsZero reports whether u is the zero value (never a valid parsed
// Uri, since both components must be non-empty).
func (u Uri) IsZero() bool { return u.authority == "" && u.path == "" }

// String returns the canonical "wrap://authority/path" form.
func (u Uri) String() string {
	return uriScheme + u.authority + "/" + u.path
}

// Equals reports structural, case-sensitive equality.
func (u Uri) Equals(other Uri) bool {
	return u.authority == other.authority && u.path == other.path
}

// MarshalJSON encodes u as its canonical string form, the way
// opencontainers/go-digest.Digest marshals itself — a Uri's identity
// is the string, not its internal fields.
func (u Uri) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UriRedirect maps one Uri to another. Order within a []UriRedirect
// slice is significant — the first matching entry wins.
type UriRedirect struct {
	From Uri
	To   Uri
}
