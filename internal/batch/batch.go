// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package batch groups the run descriptors of a distributed job into
// dispatch batches. In timeout mode this is a first-fit sequential
// bin-packing under the job's walltime budget, not an optimal packing:
// descriptor order (declaration order) alone determines membership, which
// keeps batching deterministic.
package batch

import "github.com/vk/benchgridgo/internal/model"

// Key identifies the dispatch parameters a batch is homogeneous in. Runs
// with differing dist templates or options can never share a batch script.
type Key struct {
	DistTemplate string
	DistOptions  string
	Walltime     int
	CPT          int
	Partition    string
}

// Batch is one walltime-bounded dispatch group.
type Batch struct {
	Key  Key
	Runs []model.RunDescriptor
}

// Cost returns the accumulated estimated cost of the batch in seconds:
// each run contributes its timeout.
func (b *Batch) Cost() int {
	cost := 0
	for _, r := range b.Runs {
		cost += r.Timeout
	}
	return cost
}

// Build groups descriptors into batches for the given distributed job.
// Timeout mode packs greedily while the cumulative cost stays at or below
// the walltime; multi mode emits one batch per descriptor and ignores the
// walltime entirely. The partition only tags where a batch is dispatched.
func Build(job *model.DistJob, descs []model.RunDescriptor) []Batch {
	var batches []Batch
	open := make(map[Key]int) // key -> index of the currently open batch

	for _, d := range descs {
		key := Key{
			DistTemplate: d.DistTemplate,
			DistOptions:  d.DistOptions,
			Walltime:     job.Walltime,
			CPT:          job.CPT,
			Partition:    job.Partition,
		}
		if job.ScriptMode == model.ScriptModeMulti {
			batches = append(batches, Batch{Key: key, Runs: []model.RunDescriptor{d}})
			continue
		}
		idx, ok := open[key]
		if ok && batches[idx].Cost()+d.Timeout <= job.Walltime {
			batches[idx].Runs = append(batches[idx].Runs, d)
			continue
		}
		batches = append(batches, Batch{Key: key, Runs: []model.RunDescriptor{d}})
		open[key] = len(batches) - 1
	}
	return batches
}
