package wrap

import (
	"fmt"

	"github.com/wraplang/goclient/errcode"
)

// UriParseError is returned for a malformed Uri string.
type UriParseError struct {
	Uri    string
	Reason string
}

func (e UriParseError) Error() string {
	return fmt.Sprintf("invalid uri %q: %s", e.Uri, e.Reason)
}

func (e UriParseError) ErrorCode() errcode.Code { return errcode.ErrorCodeUriParse }

// ResolutionError wraps a failure raised by an individual resolver,
// annotated with the source Uri that was being resolved.
type ResolutionError struct {
	SourceUri Uri
	Message   string
	Cause     error
}

func (e ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resolution of %s failed: %s: %v", e.SourceUri, e.Message, e.Cause)
	}
	return fmt.Sprintf("resolution of %s failed: %s", e.SourceUri, e.Message)
}

func (e ResolutionError) Unwrap() error { return e.Cause }

func (e ResolutionError) ErrorCode() errcode.Code { return errcode.ErrorCodeResolution }

// InfiniteLoop is returned when a Uri is re-entered on a resolution
// branch that already has it in flight.
type InfiniteLoop struct {
	Uri Uri
}

func (e InfiniteLoop) Error() string {
	return fmt.Sprintf("infinite loop detected while resolving %s", e.Uri)
}

func (e InfiniteLoop) ErrorCode() errcode.Code { return errcode.ErrorCodeInfiniteLoop }

// LoadWrapperError is returned when resolution terminates in a bare
// Uri instead of a Package or Wrapper.
type LoadWrapperError struct {
	Uri     Uri
	Message string
}

func (e LoadWrapperError) Error() string {
	return fmt.Sprintf("could not load wrapper for %s: %s", e.Uri, e.Message)
}

func (e LoadWrapperError) ErrorCode() errcode.Code { return errcode.ErrorCodeLoadWrapper }

// ManifestError is returned when a package produces a malformed
// manifest.
type ManifestError struct {
	Uri     Uri
	Message string
	Cause   error
}

func (e ManifestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("manifest error for %s: %s: %v", e.Uri, e.Message, e.Cause)
	}
	return fmt.Sprintf("manifest error for %s: %s", e.Uri, e.Message)
}

func (e ManifestError) Unwrap() error { return e.Cause }

func (e ManifestError) ErrorCode() errcode.Code { return errcode.ErrorCodeManifest }

// MethodNotFound is returned when the requested method is not
// exported by the wrapper at Uri.
type MethodNotFound struct {
	Uri    Uri
	Method string
}

func (e MethodNotFound) Error() string {
	return fmt.Sprintf("method %q not found on %s", e.Method, e.Uri)
}

func (e MethodNotFound) ErrorCode() errcode.Code { return errcode.ErrorCodeMethodNotFound }

// InvokeError covers argument-decode, result-decode, or in-wrapper
// failures that are not an explicit abort.
type InvokeError struct {
	Uri     Uri
	Method  string
	Message string
	Cause   error
}

func (e InvokeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invoke %s.%s failed: %s: %v", e.Uri, e.Method, e.Message, e.Cause)
	}
	return fmt.Sprintf("invoke %s.%s failed: %s", e.Uri, e.Method, e.Message)
}

func (e InvokeError) Unwrap() error { return e.Cause }

func (e InvokeError) ErrorCode() errcode.Code { return errcode.ErrorCodeInvoke }

// WrapperError is returned when a wrapper explicitly aborts its own
// invocation.
type WrapperError struct {
	Uri     Uri
	Method  string
	Message string
}

func (e WrapperError) Error() string {
	return fmt.Sprintf("%s.%s aborted: %s", e.Uri, e.Method, e.Message)
}

func (e WrapperError) ErrorCode() errcode.Code { return errcode.ErrorCodeWrapper }

// SubinvocationError wraps any error raised by a host-driven
// sub-invoke so the parent wrapper sees a stable error shape
// regardless of what failed underneath.
type SubinvocationError struct {
	Uri    Uri
	Method string
	Cause  error
}

func (e SubinvocationError) Error() string {
	return fmt.Sprintf("sub-invocation of %s.%s failed: %v", e.Uri, e.Method, e.Cause)
}

func (e SubinvocationError) Unwrap() error { return e.Cause }

func (e SubinvocationError) ErrorCode() errcode.Code { return errcode.ErrorCodeSubinvocation }

// errNotFound is the internal sentinel a resolver returns to mean
// "not mine, try the next one." UriResolverAggregator is the only
// site that recovers from it. The loader turns it into a
// LoadWrapperError, so Client.Invoke and Client.LoadWrapper never
// return it; Client.TryResolveUri and Client.ResolveWithHistory hand
// back the resolver tree's raw result and do return it.
type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

// ErrNotFound is the shared instance of the internal not-found
// sentinel. Resolvers compare against it with errors.Is.
var ErrNotFound error = errNotFound{}
