package s3fetch

import (
	"testing"

	wrap "github.com/wraplang/goclient"
)

func TestFromParametersRequiresBucket(t *testing.T) {
	_, err := FromParameters(map[string]interface{}{"region": "us-east-1"})
	if err == nil {
		t.Fatal("expected an error with no bucket parameter")
	}
}

func TestFromParametersRequiresRegion(t *testing.T) {
	_, err := FromParameters(map[string]interface{}{"bucket": "wraps"})
	if err == nil {
		t.Fatal("expected an error with no region parameter")
	}
}

func TestFromParametersAllowsAnonymousCredentials(t *testing.T) {
	f, err := FromParameters(map[string]interface{}{"bucket": "wraps", "region": "us-east-1"})
	if err != nil {
		t.Fatalf("FromParameters: %v", err)
	}
	if f == nil {
		t.Fatal("expected a non-nil Fetcher")
	}
}

func TestKeyWithAndWithoutRootDir(t *testing.T) {
	uri := wrap.MustParseUri("wrap://ipfs/Qm123")

	f := &Fetcher{bucket: "wraps"}
	if got, want := f.key(uri, "manifest.yaml"), "ipfs/Qm123/manifest.yaml"; got != want {
		t.Fatalf("key() = %q, want %q", got, want)
	}

	f.rootDir = "wrapclient"
	if got, want := f.key(uri, "manifest.yaml"), "wrapclient/ipfs/Qm123/manifest.yaml"; got != want {
		t.Fatalf("key() with rootDir = %q, want %q", got, want)
	}
}
