// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app wires the loader, the resolver, and the script generator into
// the two user-facing operations: materializing a benchmark tree and
// previewing the plan without touching the filesystem.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/benchgridgo/internal/batch"
	"github.com/vk/benchgridgo/internal/ctxlog"
	"github.com/vk/benchgridgo/internal/model"
	"github.com/vk/benchgridgo/internal/resolve"
	"github.com/vk/benchgridgo/internal/scriptgen"
	"github.com/vk/benchgridgo/internal/specload"
	"github.com/vk/benchgridgo/internal/timefmt"
)

// App executes specification files. Out receives the plan listing; all
// diagnostics go through the context logger.
type App struct {
	Out io.Writer
}

// Options selects the specification and generation behavior.
type Options struct {
	// Specs are the specification files or directories to load.
	Specs []string
	// Skip leaves runs with a finished marker untouched.
	Skip bool
}

func New(out io.Writer) *App {
	return &App{Out: out}
}

// resolvePlan loads the specification and resolves it into a plan. Resolver
// warnings are logged; any accumulated error aborts.
func (a *App) resolvePlan(ctx context.Context, opts Options) (*model.Runscript, *resolve.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	rs, err := specload.NewLoader().Load(ctx, opts.Specs...)
	if err != nil {
		return nil, nil, err
	}
	plan, report := resolve.Generate(ctx, rs)
	for _, w := range report.Warnings() {
		logger.Warn(w)
	}
	if err := report.Err(); err != nil {
		return nil, nil, err
	}
	logger.Info("specification resolved", "runs", len(plan.Descriptors))
	return rs, plan, nil
}

// Generate resolves the specification and writes the full benchmark tree.
func (a *App) Generate(ctx context.Context, opts Options) error {
	rs, plan, err := a.resolvePlan(ctx, opts)
	if err != nil {
		return err
	}
	gen := &scriptgen.Generator{Output: rs.Output, Skip: opts.Skip}
	var errs []error
	for _, project := range rs.Projects {
		job, ok := rs.Job(project.JobName)
		if !ok {
			continue
		}
		machines, byMachine := plan.PerMachine(project.Name)
		for _, machine := range machines {
			var err error
			switch job := job.(type) {
			case *model.SeqJob:
				err = gen.SeqMachine(ctx, project.Name, machine, job, byMachine[machine])
			case *model.DistJob:
				err = gen.DistMachine(ctx, project.Name, machine, job, byMachine[machine])
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("project %s machine %s: %w", project.Name, machine, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Plan resolves the specification and prints the resulting runs without
// writing anything.
func (a *App) Plan(ctx context.Context, opts Options) error {
	rs, plan, err := a.resolvePlan(ctx, opts)
	if err != nil {
		return err
	}
	for _, project := range rs.Projects {
		job, ok := rs.Job(project.JobName)
		if !ok {
			continue
		}
		machines, byMachine := plan.PerMachine(project.Name)
		for _, machine := range machines {
			descs := byMachine[machine]
			fmt.Fprintf(a.Out, "project %s machine %s job %s: %d runs\n",
				project.Name, machine, project.JobName, len(descs))
			for _, d := range descs {
				fmt.Fprintf(a.Out, "  %s\n", d.Path)
			}
			if job, ok := job.(*model.DistJob); ok {
				for i, b := range batch.Build(job, descs) {
					fmt.Fprintf(a.Out, "  batch %04d: %d runs, cost %s of %s walltime\n",
						i+1, len(b.Runs), timefmt.Format(b.Cost()), timefmt.Format(b.Key.Walltime))
				}
			}
		}
	}
	return nil
}
