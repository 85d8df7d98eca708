// Package manifest defines the on-disk wrap manifest format and
// verifies it the way registry/storage/manifeststore.go verifies a
// distribution manifest: signature verification is optional and
// policy-driven, content-digest verification is mandatory before the
// referenced module is ever handed to an engine.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/docker/libtrust"
	"github.com/opencontainers/go-digest"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v2"

	wrap "github.com/wraplang/goclient"
)

// SchemaVersion is the only manifest schema version this client
// understands.
const SchemaVersion = 1

// MediaTypeModule is the media type a Manifest's Module descriptor
// must carry: a raw WebAssembly binary, named the way
// opencontainers/image-spec names its own blob media types
// ("application/vnd.oci.image.layer...") rather than as a bare
// content-type string.
const MediaTypeModule = "application/vnd.wrap.module.v1+wasm"

// Manifest is the description of a wrap package: its declared name,
// the methods its Wrapper will export, and an OCI-style descriptor
// (media type, digest, size) the fetched module bytes must match
// before a Wrapper may be built from them — the same
// v1.Descriptor shape distribution's own schema2/ocischema manifests
// use to reference their config and layer blobs.
type Manifest struct {
	SchemaVersion int           `yaml:"schemaVersion" json:"schemaVersion"`
	PackageName   string        `yaml:"name" json:"name"`
	Version       string        `yaml:"version" json:"version"`
	MethodNames   []string      `yaml:"methods" json:"methods"`
	Module        v1.Descriptor `yaml:"module" json:"module"`
}

var _ wrap.Manifest = (*Manifest)(nil)

// Name implements wrap.Manifest.
func (m *Manifest) Name() string { return m.PackageName }

// Methods implements wrap.Manifest.
func (m *Manifest) Methods() []string { return m.MethodNames }

func (m *Manifest) validate() error {
	if m.SchemaVersion != SchemaVersion {
		return wrap.ManifestError{Message: fmt.Sprintf("unsupported manifest schemaVersion %d", m.SchemaVersion)}
	}
	if m.PackageName == "" {
		return wrap.ManifestError{Message: "manifest missing name"}
	}
	if m.Module.Digest == "" {
		return wrap.ManifestError{Message: "manifest missing module.digest"}
	}
	if err := m.Module.Digest.Validate(); err != nil {
		return wrap.ManifestError{Message: "manifest module.digest: " + err.Error()}
	}
	if m.Module.MediaType == "" {
		m.Module.MediaType = MediaTypeModule
	}
	return nil
}

// Parse decodes an unsigned, YAML-encoded manifest document. It does
// not verify Module.Digest against any module bytes; call
// VerifyModule once the module is fetched.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, wrap.ManifestError{Message: err.Error()}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// VerifyModule checks moduleBytes against the manifest's declared
// Module descriptor, failing closed: a package whose module bytes
// don't match its own manifest — in digest or declared size — is
// never handed to an engine.
func (m *Manifest) VerifyModule(moduleBytes []byte) error {
	if digest.FromBytes(moduleBytes) != m.Module.Digest {
		return wrap.ManifestError{Message: "module bytes do not match manifest module.digest"}
	}
	if m.Module.Size != 0 && m.Module.Size != int64(len(moduleBytes)) {
		return wrap.ManifestError{Message: fmt.Sprintf("module bytes are %d bytes, manifest declares module.size %d", len(moduleBytes), m.Module.Size)}
	}
	return nil
}

// Fingerprint derives a short, fixed-length, filesystem/redis-key-safe
// identifier for uri using blake2b-256 rather than the SHA-256-based
// digest this package uses for module content verification: it is a
// secondary hash with a different purpose (opaque key derivation, not
// tamper detection) and has no trust or verification meaning of its
// own. Used by resolvers/rediscache to namespace cache entries without
// embedding an arbitrary uri's raw bytes in the key.
func Fingerprint(uri wrap.Uri) string {
	sum := blake2b.Sum256([]byte(uri.String()))
	return hex.EncodeToString(sum[:])
}

// SignedManifest is a Manifest plus the libtrust pretty-JWS envelope
// it was parsed from, grounded on manifest/schema1.SignedManifest:
// the envelope embeds the canonical JSON payload alongside an
// attached "signatures" block.
type SignedManifest struct {
	Manifest
	raw []byte
}

// ParseSigned decodes a pretty-JWS-signed manifest envelope produced
// by SignManifest.
func ParseSigned(b []byte) (*SignedManifest, error) {
	jsig, err := libtrust.ParsePrettySignature(b, "signatures")
	if err != nil {
		return nil, wrap.ManifestError{Message: err.Error()}
	}

	payload, err := jsig.Payload()
	if err != nil {
		return nil, wrap.ManifestError{Message: err.Error()}
	}

	var m Manifest
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, wrap.ManifestError{Message: err.Error()}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	raw := make([]byte, len(b))
	copy(raw, b)
	return &SignedManifest{Manifest: m, raw: raw}, nil
}

// Verify validates the envelope's signatures, optionally restricting
// trust to trustedKeys (an empty set accepts any validly-signed
// envelope). Mirrors manifestStore.verifyManifest's handling of
// libtrust.ErrMissingSignatureKey / ErrInvalidJSONContent: both map to
// ErrUnsigned here so callers can decide whether unsigned content is
// acceptable policy rather than a hard failure.
func (sm *SignedManifest) Verify(trustedKeys []libtrust.PublicKey) error {
	jsig, err := libtrust.ParsePrettySignature(sm.raw, "signatures")
	if err != nil {
		return wrap.ManifestError{Message: err.Error()}
	}

	keys, err := jsig.Verify()
	if err != nil {
		if err == libtrust.ErrMissingSignatureKey || err == libtrust.ErrInvalidJSONContent {
			return ErrUnsigned
		}
		return wrap.ManifestError{Message: "signature verification failed: " + err.Error()}
	}

	if len(trustedKeys) == 0 {
		return nil
	}
	for _, k := range keys {
		for _, trusted := range trustedKeys {
			if k.KeyID() == trusted.KeyID() {
				return nil
			}
		}
	}
	return wrap.ManifestError{Message: "signature key not in trusted set"}
}

// SignManifest produces a pretty-JWS envelope for m, signed with key.
func SignManifest(m *Manifest, key libtrust.PrivateKey) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	js, err := libtrust.NewJSONSignature(payload)
	if err != nil {
		return nil, err
	}
	if err := js.Sign(key); err != nil {
		return nil, err
	}
	return js.PrettySignature("signatures")
}

// ErrUnsigned is returned by Verify when an envelope carries no
// signature libtrust can attribute to any key.
var ErrUnsigned = wrap.ManifestError{Message: "manifest is unsigned"}
