package azurefetch

import (
	"testing"

	wrap "github.com/wraplang/goclient"
)

func TestFromParametersRequiresAccountName(t *testing.T) {
	_, err := FromParameters(map[string]interface{}{"accountkey": "a2V5", "container": "wraps"})
	if err == nil {
		t.Fatal("expected an error with no accountname parameter")
	}
}

func TestFromParametersRequiresAccountKey(t *testing.T) {
	_, err := FromParameters(map[string]interface{}{"accountname": "acct", "container": "wraps"})
	if err == nil {
		t.Fatal("expected an error with no accountkey parameter")
	}
}

func TestFromParametersRequiresContainer(t *testing.T) {
	_, err := FromParameters(map[string]interface{}{"accountname": "acct", "accountkey": "a2V5"})
	if err == nil {
		t.Fatal("expected an error with no container parameter")
	}
}

func TestFromParametersRejectsInvalidKey(t *testing.T) {
	_, err := FromParameters(map[string]interface{}{
		"accountname": "acct",
		"accountkey":  "not-base64!!",
		"container":   "wraps",
	})
	if err == nil {
		t.Fatal("expected an error decoding a non-base64 account key")
	}
}

func TestKey(t *testing.T) {
	f := &Fetcher{container: "wraps"}
	uri := wrap.MustParseUri("wrap://ipfs/Qm123")
	if got, want := f.key(uri, "manifest.yaml"), "ipfs/Qm123/manifest.yaml"; got != want {
		t.Fatalf("key() = %q, want %q", got, want)
	}
}
