// Package util contains small cross-cutting helpers shared by the other
// internal packages.
package util

import "fmt"

// WrapError wraps err with a short contextual prefix, or returns nil if err
// is nil. It lets call sites use the one-liner
// `return util.WrapError("doing thing", err)` instead of an `if err != nil`
// block at every return.
func WrapError(context string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", context, err)
}
