package wrap

import "encoding/json"

// EnvMap is an ordered-insertion, unique-keyed mapping of Uri to
// opaque environment bytes. The core never interprets the contents of
// an entry; it only looks values up by exact Uri.
type EnvMap struct {
	entries map[Uri][]byte
	order   []Uri
}

// NewEnvMap returns an empty EnvMap.
func NewEnvMap() *EnvMap {
	return &EnvMap{entries: make(map[Uri][]byte)}
}

// Set stores env bytes for uri, preserving first-insertion order.
func (m *EnvMap) Set(uri Uri, env []byte) {
	if _, exists := m.entries[uri]; !exists {
		m.order = append(m.order, uri)
	}
	m.entries[uri] = env
}

// Get returns the env bytes registered for uri, if any.
func (m *EnvMap) Get(uri Uri) ([]byte, bool) {
	b, ok := m.entries[uri]
	return b, ok
}

// Uris returns the registered Uris in insertion order.
func (m *EnvMap) Uris() []Uri {
	out := make([]Uri, len(m.order))
	copy(out, m.order)
	return out
}

// InterfaceImplementations maps an interface Uri to an ordered,
// non-empty list of implementation Uris. List order is preserved and
// exposed unchanged to wrappers.
type InterfaceImplementations struct {
	entries map[Uri][]Uri
}

// NewInterfaceImplementations returns an empty
// InterfaceImplementations map.
func NewInterfaceImplementations() *InterfaceImplementations {
	return &InterfaceImplementations{entries: make(map[Uri][]Uri)}
}

// Set registers impls (must be non-empty) as the ordered
// implementation list for interfaceUri.
func (m *InterfaceImplementations) Set(interfaceUri Uri, impls []Uri) {
	if len(impls) == 0 {
		return
	}
	cp := make([]Uri, len(impls))
	copy(cp, impls)
	m.entries[interfaceUri] = cp
}

// Get returns the ordered implementation list registered for
// interfaceUri, or an empty slice if none is registered.
func (m *InterfaceImplementations) Get(interfaceUri Uri) []Uri {
	impls, ok := m.entries[interfaceUri]
	if !ok {
		return nil
	}
	out := make([]Uri, len(impls))
	copy(out, impls)
	return out
}

// Interfaces returns the registered interface Uris.
func (m *InterfaceImplementations) Interfaces() []Uri {
	out := make([]Uri, 0, len(m.entries))
	for u := range m.entries {
		out = append(out, u)
	}
	return out
}

// uriKind discriminates the three cases of UriPackageOrWrapper.
type uriKind int

const (
	kindUri uriKind = iota
	kindPackage
	kindWrapper
)

// UriPackageOrWrapper is the tagged result of resolving a Uri: either
// another Uri to re-resolve, a WrapPackage at its canonical Uri, or a
// ready Wrapper at its canonical Uri.
type UriPackageOrWrapper struct {
	kind    uriKind
	uri     Uri
	pkg     WrapPackage
	wrapper Wrapper
}

// FromUri builds the "resolution yielded another uri" case.
func FromUri(u Uri) UriPackageOrWrapper {
	return UriPackageOrWrapper{kind: kindUri, uri: u}
}

// FromPackage builds the "resolution yielded a package" case.
func FromPackage(u Uri, pkg WrapPackage) UriPackageOrWrapper {
	return UriPackageOrWrapper{kind: kindPackage, uri: u, pkg: pkg}
}

// FromWrapper builds the "resolution yielded a ready wrapper" case.
func FromWrapper(u Uri, w Wrapper) UriPackageOrWrapper {
	return UriPackageOrWrapper{kind: kindWrapper, uri: u, wrapper: w}
}

// Uri returns the Uri carried by whichever case this value holds.
func (r UriPackageOrWrapper) Uri() Uri { return r.uri }

// IsUri reports whether this is the "re-resolve this uri" case, and
// if so returns it.
func (r UriPackageOrWrapper) IsUri() (Uri, bool) {
	if r.kind == kindUri {
		return r.uri, true
	}
	return Uri{}, false
}

// IsPackage reports whether this is the package case, and if so
// returns it.
func (r UriPackageOrWrapper) IsPackage() (WrapPackage, bool) {
	if r.kind == kindPackage {
		return r.pkg, true
	}
	return nil, false
}

// IsWrapper reports whether this is the wrapper case, and if so
// returns it.
func (r UriPackageOrWrapper) IsWrapper() (Wrapper, bool) {
	if r.kind == kindWrapper {
		return r.wrapper, true
	}
	return nil, false
}

func (k uriKind) String() string {
	switch k {
	case kindUri:
		return "uri"
	case kindPackage:
		return "package"
	case kindWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes r as {"kind": ..., "uri": ...}, the way Uri
// marshals itself as its canonical string form rather than exposing
// its unexported fields. A bare zero-value UriPackageOrWrapper would
// otherwise marshal as "{}" — useless for a consumer (e.g. the
// /debug/history endpoint) trying to show what a resolution step
// actually produced. The package/wrapper handles themselves are
// opaque and not serialized; only the tag and canonical Uri are.
func (r UriPackageOrWrapper) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Uri  string `json:"uri"`
	}{
		Kind: r.kind.String(),
		Uri:  r.uri.String(),
	})
}
