// Package wrap implements the client-side runtime for the wrap
// packaging format: self-describing WebAssembly modules ("wrappers")
// that expose named methods invoked over a length-prefixed binary
// argument blob and return a binary result blob.
//
// A Client accepts a Uri naming a wrapper, resolves it through a
// user-configured pipeline of UriResolvers into a Wrapper (or a
// WrapPackage that can produce one), and invokes a named method on
// it, optionally threading an environment value and supporting
// re-entrant sub-invocations issued by the running wrapper back into
// the host.
package wrap
