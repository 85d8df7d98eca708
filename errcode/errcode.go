// Package errcode provides a small, stable registry of error codes
// for the wrap client, mirroring the shape (not the HTTP coupling) of
// distribution's registry/api/errcode package: a descriptor per
// error kind, registered once at init time, queryable by value.
package errcode

import "fmt"

// Code is a stable, comparable identifier for an error kind.
type Code int

// The exhaustive set of error kinds surfaced by this module (spec §7).
const (
	ErrorCodeUnknown Code = iota
	ErrorCodeUriParse
	ErrorCodeResolution
	ErrorCodeInfiniteLoop
	ErrorCodeLoadWrapper
	ErrorCodeManifest
	ErrorCodeMethodNotFound
	ErrorCodeInvoke
	ErrorCodeWrapper
	ErrorCodeSubinvocation
)

// Descriptor carries the human-readable identity of a Code.
type Descriptor struct {
	Code        Code
	Value       string
	Message     string
	Description string
}

var descriptors = map[Code]Descriptor{}

func register(d Descriptor) Code {
	if _, exists := descriptors[d.Code]; exists {
		panic(fmt.Sprintf("errcode: %v already registered", d.Code))
	}
	descriptors[d.Code] = d
	return d.Code
}

func init() {
	register(Descriptor{Code: ErrorCodeUnknown, Value: "UNKNOWN", Message: "unknown error"})
	register(Descriptor{Code: ErrorCodeUriParse, Value: "URI_PARSE", Message: "malformed uri string"})
	register(Descriptor{Code: ErrorCodeResolution, Value: "RESOLUTION", Message: "an individual resolver failed"})
	register(Descriptor{Code: ErrorCodeInfiniteLoop, Value: "INFINITE_LOOP", Message: "cycle detected during resolution"})
	register(Descriptor{Code: ErrorCodeLoadWrapper, Value: "LOAD_WRAPPER", Message: "resolution did not terminate in a wrapper or package"})
	register(Descriptor{Code: ErrorCodeManifest, Value: "MANIFEST", Message: "package produced a malformed manifest"})
	register(Descriptor{Code: ErrorCodeMethodNotFound, Value: "METHOD_NOT_FOUND", Message: "requested method is not exported"})
	register(Descriptor{Code: ErrorCodeInvoke, Value: "INVOKE", Message: "argument decode, result decode, or in-wrapper failure"})
	register(Descriptor{Code: ErrorCodeWrapper, Value: "WRAPPER", Message: "wrapper aborted its own invocation"})
	register(Descriptor{Code: ErrorCodeSubinvocation, Value: "SUBINVOCATION", Message: "a host-driven sub-invoke failed"})
}

// Describe returns the Descriptor for code, or the unknown descriptor
// if code was never registered.
func Describe(code Code) Descriptor {
	if d, ok := descriptors[code]; ok {
		return d
	}
	return descriptors[ErrorCodeUnknown]
}

// Coder is implemented by every error type in this module so callers
// can classify an error without a type switch.
type Coder interface {
	error
	ErrorCode() Code
}
