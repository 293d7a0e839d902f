// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slicest holds small generic slice helpers.
package slicest

// MapX converts every element of s with fn and stops at the first error.
// The result is never nil, so an empty input encodes as an empty JSON array.
func MapX[T, U any, S ~[]T](s S, fn func(T) (U, error)) ([]U, error) {
	result := make([]U, len(s))
	for i, v := range s {
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		result[i] = out
	}
	return result, nil
}

// Map converts every element of s with fn.
func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	result, _ := MapX(s, func(t T) (U, error) {
		return fn(t), nil
	})
	return result
}
