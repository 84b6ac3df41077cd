// Package services defines the shared error taxonomy for pipeline stages.
//
// Stage code wraps failures with a sentinel marker (external tool, validation,
// configuration, not found) so callers can classify an error without parsing
// its message. Wrap builds a consistent "stage: operation: message" detail
// string around the marker.
package services
