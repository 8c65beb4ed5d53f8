package predict

import "fmt"

// ConfigError is a construction-time failure (missing credential, unknown
// profile). Fatal for the run, never silently defaulted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "predictor config: " + e.Reason
}

// SchemaError means the model's output did not conform to the prediction
// schema. It is not retried or patched here; the caller decides.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction schema: %s: %v", e.Reason, e.Err)
	}
	return "prediction schema: " + e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

// InputError marks malformed caller-supplied input, distinct from provider
// and schema failures.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return "bad predictor input: " + e.Err.Error()
}

func (e *InputError) Unwrap() error { return e.Err }
