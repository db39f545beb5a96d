package utils

import (
	"testing"

	"golang.org/x/exp/slices"
)

// Generic assertion helpers shared by the package tests. Each failed
// assertion stops the test immediately.

// AssertEquals fails the test when expected and result differ.
func AssertEquals[T comparable](t *testing.T, expected T, result T) {
	t.Helper()
	if expected != result {
		t.Fatalf("got '%v', expected '%v'", result, expected)
	}
}

// AssertEqualsMsg is AssertEquals with a custom message on failure.
func AssertEqualsMsg[T comparable](t *testing.T, expected T, result T, msg string) {
	t.Helper()
	if expected != result {
		t.Fatalf("%s: got '%v', expected '%v'", msg, result, expected)
	}
}

// AssertSliceEquals fails the test unless the slices have the same elements
// in the same order.
func AssertSliceEquals[T comparable](t *testing.T, expected []T, result []T) {
	t.Helper()
	if !slices.Equal(expected, result) {
		t.Fatalf("got '%v', expected '%v'", result, expected)
	}
}

// AssertEmptySlice fails the test unless the slice has no elements. A nil
// slice counts as empty.
func AssertEmptySlice[T any](t *testing.T, slice []T) {
	t.Helper()
	if len(slice) != 0 {
		t.Fatalf("got '%v', expected an empty slice", slice)
	}
}

// AssertNil fails the test when result is not nil. Useful for checking that
// there are no errors.
func AssertNil(t *testing.T, result interface{}) {
	t.Helper()
	if result != nil {
		t.Fatalf("got '%v', expected nil", result)
	}
}

// AssertNonNil fails the test when result is nil.
func AssertNonNil(t *testing.T, result interface{}) {
	t.Helper()
	if result == nil {
		t.Fatalf("got nil, expected a value")
	}
}

// AssertTrue fails the test when the condition is false.
func AssertTrue(t *testing.T, cond bool) {
	t.Helper()
	if !cond {
		t.Fatalf("got false, expected true")
	}
}

// AssertTrueMsg is AssertTrue with a custom message on failure.
func AssertTrueMsg(t *testing.T, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Fatalf("%s", msg)
	}
}

// AssertFalse fails the test when the condition is true.
func AssertFalse(t *testing.T, cond bool) {
	t.Helper()
	if cond {
		t.Fatalf("got true, expected false")
	}
}

// AssertFalseMsg is AssertFalse with a custom message on failure.
func AssertFalseMsg(t *testing.T, cond bool, msg string) {
	t.Helper()
	if cond {
		t.Fatalf("%s", msg)
	}
}
