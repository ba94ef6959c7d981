// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// Defaults applied during loading when the specification leaves the
// corresponding attribute out.
const (
	DefaultMemout       = 20000 // MB
	DefaultPartition    = "kr"
	DefaultDistTemplate = "templates/single.dist"
)

// ScriptMode selects how a distributed job groups runs into dispatch
// scripts.
type ScriptMode string

const (
	// ScriptModeTimeout packs runs into walltime-bounded batches.
	ScriptModeTimeout ScriptMode = "timeout"
	// ScriptModeMulti emits one dispatch script per run; walltime is ignored.
	ScriptModeMulti ScriptMode = "multi"
)

// JobCommon holds the per-run resource limits shared by both job kinds.
// Timeout is in seconds, Memout in MB. TemplateOptions carries free-form
// attributes handed through to run templates untouched.
type JobCommon struct {
	Name            string
	Timeout         int
	Runs            int
	Memout          int
	TemplateOptions map[string]string
}

// Job is implemented by the two job kinds, SeqJob and DistJob.
type Job interface {
	Common() *JobCommon
}

// SeqJob describes a job whose runs start on a single machine with a bound
// on parallelism.
type SeqJob struct {
	JobCommon
	Parallel int
}

// Common implements Job.
func (j *SeqJob) Common() *JobCommon { return &j.JobCommon }

// DistJob describes a job dispatched to a cluster. Walltime is in seconds.
type DistJob struct {
	JobCommon
	ScriptMode ScriptMode
	Walltime   int
	CPT        int
	Partition  string
}

// Common implements Job.
func (j *DistJob) Common() *JobCommon { return &j.JobCommon }
