package md2notion

import "errors"

// Sentinel errors for library operations.
var (
	// ErrAssetResolve wraps failures from the injected asset resolver.
	// Resolver failures are the only conversion-time errors that propagate;
	// malformed markdown always degrades to a fallback block instead.
	ErrAssetResolve = errors.New("asset resolution failed")

	// ErrSchemaValidation wraps block schema validation failures.
	ErrSchemaValidation = errors.New("block schema validation failed")

	// ErrSchemaCompile indicates the embedded block schema failed to compile.
	ErrSchemaCompile = errors.New("block schema compilation failed")
)
