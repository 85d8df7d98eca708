package wrap

// Codec is the opaque bytes <-> structured-value pair of functions
// the core treats as an external collaborator (spec §1): it never
// interprets argument/result bytes itself except at the one site
// (ExtensionWrapperResolver) where it must marshal a structured call
// to a resolver-wrapper's tryResolveUri method.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
}
