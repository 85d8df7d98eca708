package manifest

import (
	"testing"

	"github.com/docker/libtrust"
	"github.com/opencontainers/go-digest"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

func validYAML(moduleDigest digest.Digest) []byte {
	return []byte("schemaVersion: 1\n" +
		"name: test-package\n" +
		"version: 0.1.0\n" +
		"methods:\n  - add\n  - sub\n" +
		"module:\n  digest: " + moduleDigest.String() + "\n")
}

func TestParseValid(t *testing.T) {
	moduleBytes := []byte("not wasm but deterministic bytes")
	m, err := Parse(validYAML(digest.FromBytes(moduleBytes)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name() != "test-package" {
		t.Fatalf("got name %q", m.Name())
	}
	if len(m.Methods()) != 2 {
		t.Fatalf("got methods %v", m.Methods())
	}
	if err := m.VerifyModule(moduleBytes); err != nil {
		t.Fatalf("VerifyModule: %v", err)
	}
}

func TestParseRejectsUnsupportedSchema(t *testing.T) {
	_, err := Parse([]byte("schemaVersion: 2\nname: x\nmodule:\n  digest: " + digest.FromBytes(nil).String() + "\n"))
	if err == nil {
		t.Fatal("expected an error for an unsupported schemaVersion")
	}
}

func TestParseRejectsMissingDigest(t *testing.T) {
	_, err := Parse([]byte("schemaVersion: 1\nname: x\n"))
	if err == nil {
		t.Fatal("expected an error for a missing module.digest")
	}
}

func TestVerifyModuleDetectsTamper(t *testing.T) {
	original := []byte("original module bytes")
	m, err := Parse(validYAML(digest.FromBytes(original)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := m.VerifyModule([]byte("tampered module bytes")); err == nil {
		t.Fatal("expected VerifyModule to reject tampered bytes")
	}
}

func TestSignAndVerify(t *testing.T) {
	key, err := libtrust.GenerateECP256PrivateKey()
	if err != nil {
		t.Fatalf("GenerateECP256PrivateKey: %v", err)
	}

	moduleBytes := []byte("m")
	m := &Manifest{
		SchemaVersion: SchemaVersion,
		PackageName:   "signed-package",
		MethodNames:   []string{"run"},
		Module:        v1.Descriptor{MediaType: MediaTypeModule, Digest: digest.FromBytes(moduleBytes), Size: int64(len(moduleBytes))},
	}

	envelope, err := SignManifest(m, key)
	if err != nil {
		t.Fatalf("SignManifest: %v", err)
	}

	sm, err := ParseSigned(envelope)
	if err != nil {
		t.Fatalf("ParseSigned: %v", err)
	}
	if sm.Name() != "signed-package" {
		t.Fatalf("got name %q", sm.Name())
	}

	if err := sm.Verify(nil); err != nil {
		t.Fatalf("Verify with no trusted-key restriction: %v", err)
	}
	if err := sm.Verify([]libtrust.PublicKey{key.PublicKey()}); err != nil {
		t.Fatalf("Verify against the signing key: %v", err)
	}

	other, err := libtrust.GenerateECP256PrivateKey()
	if err != nil {
		t.Fatalf("GenerateECP256PrivateKey: %v", err)
	}
	if err := sm.Verify([]libtrust.PublicKey{other.PublicKey()}); err == nil {
		t.Fatal("expected Verify to reject an untrusted key set")
	}
}
