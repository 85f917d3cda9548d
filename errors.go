package baes

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for the pipeline-wide failure taxonomy.
//
// Fallback conditions are not errors: classifier and template engine
// return them as values carrying a human-readable reason. The errors
// below cover the remaining cases: absent catalog resources, invalid
// catalog definitions, and syntactically invalid artifact source.
var (
	// ErrMissingResource is returned when a template or rule catalog
	// entry is absent. Callers degrade to the generative fallback.
	ErrMissingResource = errors.New("baes: missing resource")

	// ErrInvalidCatalog is returned when a catalog definition cannot
	// be compiled at startup.
	ErrInvalidCatalog = errors.New("baes: invalid catalog")

	// ErrSyntaxInvalid is returned when artifact source cannot be
	// parsed into the structured syntax representation.
	ErrSyntaxInvalid = errors.New("baes: invalid syntax")
)

// MissingResourceError reports an absent catalog resource.
type MissingResourceError struct {
	kind string // "template", "rule", ...
	name string
}

// Error returns the error string.
func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("baes: %s resource %q not found", e.kind, e.name)
}

// Is reports whether the target matches the sentinel for MissingResourceError.
// This allows errors.Is(err, ErrMissingResource) to return true.
func (e *MissingResourceError) Is(err error) bool {
	return err == ErrMissingResource
}

// Kind returns the resource kind ("template", "rule", ...).
func (e *MissingResourceError) Kind() string { return e.kind }

// Name returns the missing resource name.
func (e *MissingResourceError) Name() string { return e.name }

// NewMissingResourceError returns a new MissingResourceError for the
// given resource kind and name.
func NewMissingResourceError(kind, name string) *MissingResourceError {
	return &MissingResourceError{kind: kind, name: name}
}

// IsMissingResource returns true if the error reports an absent resource.
func IsMissingResource(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingResourceError
	return errors.As(err, &e) || errors.Is(err, ErrMissingResource)
}

// CatalogError reports an invalid catalog definition detected at startup.
type CatalogError struct {
	Catalog string // "templates", "rules"
	Entry   string // Offending entry id, if known.
	Message string
	Cause   error
}

// Error returns the error string.
func (e *CatalogError) Error() string {
	msg := fmt.Sprintf("baes: %s catalog error", e.Catalog)
	if e.Entry != "" {
		msg += fmt.Sprintf(" on entry %q", e.Entry)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CatalogError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel for CatalogError.
func (e *CatalogError) Is(err error) bool {
	return err == ErrInvalidCatalog
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(catalog, entry, message string, cause error) *CatalogError {
	return &CatalogError{Catalog: catalog, Entry: entry, Message: message, Cause: cause}
}

// IsCatalogError returns true if the error is a CatalogError.
func IsCatalogError(err error) bool {
	if err == nil {
		return false
	}
	var e *CatalogError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidCatalog)
}
