package codec

import "testing"

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	c := JSON{}
	in := payload{Name: "foo", Count: 3}

	data, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var out payload
	if err := c.Decode(data, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestJSONDecodeInvalid(t *testing.T) {
	var out struct{}
	if err := (JSON{}).Decode([]byte("not json"), &out); err == nil {
		t.Fatal("expected an error decoding malformed input")
	}
}
