// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package model holds the format-agnostic representation of a benchmark
// specification: machines, systems and their settings, jobs, benchmarks with
// their instances, and the projects that tie them together.
//
// The model is deliberately decoupled from any serialization. The loader in
// internal/specload translates HCL into these types; everything downstream
// (resolution, batching, script generation) operates on the model alone.
// Entities cross-reference each other by name, so the model is built in two
// phases: first every entity is registered in a name-indexed table on
// Runscript, then references are resolved into direct handles. Dangling
// references surface as errors at resolution time, scoped to the entity that
// holds the reference.
package model
