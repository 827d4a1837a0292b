package music

import "fmt"

// ValidationError reports caller input that violates a documented constraint
// (closed enum violated, numeric range violated). Caller-fixable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// ConfigurationError reports a missing or unusable local resource, such as
// the prompt instruction document. Operator-fixable, not caller-fixable.
type ConfigurationError struct {
	Resource string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("configuration: %s unavailable", e.Resource)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// GenerationError reports an upstream failure: the external API errored,
// timed out, or returned a malformed or empty result. Never retried here.
type GenerationError struct {
	Op  string // "prompt", "plan" or "render"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StorageError reports a local persistence failure for a render artifact,
// kept distinct from GenerationError so operators can tell infrastructure
// problems from upstream-API problems.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
