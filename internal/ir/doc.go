// Package ir provides the format-independent representation of rotor
// catalogs and settings lines.
//
// This package contains type definitions and canonical hashing only. The
// catalog loaders produce ir values and the cipher builder consumes them;
// ir imports nothing internal.
//
// Key design constraints:
//   - No float types anywhere; counts are int.
//   - All JSON tags use snake_case.
//   - Fingerprints hash canonical JSON, never encoding/json output.
package ir
