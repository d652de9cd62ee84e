package model

import "fmt"

// ConfigurationError reports invalid or non-partitioning catalog
// configuration. Configuration errors abort a run before any tract is
// produced.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}

// GeometryError reports a tract whose footprint could not be constructed:
// degenerate bounds, out-of-range bands, or a seam-crossing ring the active
// policy refuses to represent. Geometry errors are per-tract; the run skips
// the tract and continues unless abort-on-error is requested.
type GeometryError struct {
	// TractID identifies the offending tract when an identifier was
	// already derived; Tuple carries the formatted index tuple otherwise.
	TractID string
	Tuple   string
	Reason  string
}

func (e *GeometryError) Error() string {
	ref := e.TractID
	if ref == "" {
		ref = e.Tuple
	}
	if ref == "" {
		return "geometry: " + e.Reason
	}
	return fmt.Sprintf("geometry %s: %s", ref, e.Reason)
}

// ConsistencyError reports a duplicate tract identifier or a cross-format
// mismatch detected while verifying exports. Consistency errors are fatal to
// the operation that detected them.
type ConsistencyError struct {
	TractID string
	Reason  string
}

func (e *ConsistencyError) Error() string {
	if e.TractID == "" {
		return "consistency: " + e.Reason
	}
	return fmt.Sprintf("consistency %s: %s", e.TractID, e.Reason)
}
