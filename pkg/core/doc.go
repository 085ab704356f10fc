// Package core defines the shared language of the edilens system.
//
// This package contains:
//   - Result rows returned by the analysis service (SegmentRow, ElementRow)
//   - The decoded service response (Payload)
//   - Archived analyses and the Store interface that persists them
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
