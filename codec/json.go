// Package codec provides a default wrap.Codec implementation for
// callers that have no reason to pick a different argument encoding.
package codec

import (
	"encoding/json"

	wrap "github.com/wraplang/goclient"
)

// JSON implements wrap.Codec over encoding/json, the same encoding
// manifest.Manifest and manifest.SignManifest use for their own
// payloads.
type JSON struct{}

var _ wrap.Codec = JSON{}

// Encode implements wrap.Codec.
func (JSON) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements wrap.Codec.
func (JSON) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
