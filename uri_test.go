package wrap

import (
	"encoding/json"
	"testing"
)

func TestParseUri(t *testing.T) {
	cases := []struct {
		in        string
		authority string
		path      string
	}{
		{"wrap://ipfs/Qm123", "ipfs", "Qm123"},
		{"ens/foo.eth", "ens", "foo.eth"},
		{"wrap://fs/a/b/c", "fs", "a/b/c"},
	}

	for _, c := range cases {
		u, err := ParseUri(c.in)
		if err != nil {
			t.Fatalf("ParseUri(%q): %v", c.in, err)
		}
		if u.Authority() != c.authority || u.Path() != c.path {
			t.Fatalf("ParseUri(%q) = %q/%q, want %q/%q", c.in, u.Authority(), u.Path(), c.authority, c.path)
		}
	}
}

func TestParseUriErrors(t *testing.T) {
	for _, in := range []string{"", "wrap://", "wrap:///path", "wrap://bad authority/path"} {
		if _, err := ParseUri(in); err == nil {
			t.Fatalf("ParseUri(%q): expected an error", in)
		}
	}
}

func TestUriStringRoundTrip(t *testing.T) {
	u := MustParseUri("wrap://ipfs/Qm123")
	if got, want := u.String(), "wrap://ipfs/Qm123"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	reparsed := MustParseUri(u.String())
	if !u.Equals(reparsed) {
		t.Fatal("round-tripped uri is not Equal to the original")
	}
}

func TestUriEquals(t *testing.T) {
	a := MustParseUri("wrap://ipfs/Qm123")
	b := MustParseUri("wrap://ipfs/Qm123")
	c := MustParseUri("wrap://ipfs/Qm456")

	if !a.Equals(b) {
		t.Fatal("expected equal uris to be Equal")
	}
	if a.Equals(c) {
		t.Fatal("expected different uris to not be Equal")
	}
}

func TestUriMarshalJSON(t *testing.T) {
	u := MustParseUri("wrap://ipfs/Qm123")

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if got, want := string(data), `"wrap://ipfs/Qm123"`; got != want {
		t.Fatalf("Marshal(%v) = %s, want %s", u, got, want)
	}
}

func TestUriMarshalJSONInStruct(t *testing.T) {
	type wrapper struct {
		Uri Uri `json:"uri"`
	}

	data, err := json.Marshal(wrapper{Uri: MustParseUri("wrap://fs/mod")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if got, want := string(data), `{"uri":"wrap://fs/mod"}`; got != want {
		t.Fatalf("Marshal() = %s, want %s", got, want)
	}
}
