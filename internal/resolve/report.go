// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package resolve turns a specification graph into the flat, ordered set of
// run descriptors, accumulating every configuration problem instead of
// failing on the first one.
package resolve

import (
	"errors"
	"fmt"
)

// Report accumulates the errors and warnings of one resolution pass. Nothing
// is silently corrected: reference and structural errors end up here, and
// selections that match nothing are surfaced as warnings, not success.
type Report struct {
	errs  []error
	warns []string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Errorf records an error.
func (r *Report) Errorf(format string, args ...any) {
	r.errs = append(r.errs, fmt.Errorf(format, args...))
}

// Warnf records a warning.
func (r *Report) Warnf(format string, args ...any) {
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

// Merge appends another report's findings, preserving order.
func (r *Report) Merge(other *Report) {
	r.errs = append(r.errs, other.errs...)
	r.warns = append(r.warns, other.warns...)
}

// Errors returns the accumulated errors.
func (r *Report) Errors() []error { return r.errs }

// Warnings returns the accumulated warnings.
func (r *Report) Warnings() []string { return r.warns }

// Err joins all accumulated errors into one, or returns nil.
func (r *Report) Err() error {
	return errors.Join(r.errs...)
}
