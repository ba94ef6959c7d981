// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scriptgen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/benchgridgo/internal/batch"
	"github.com/vk/benchgridgo/internal/ctxlog"
	"github.com/vk/benchgridgo/internal/fsutil"
	"github.com/vk/benchgridgo/internal/model"
)

const (
	runScript      = "start.sh"
	finishedMarker = ".finished"
)

// Generator writes run directories, run scripts, and launchers under the
// output root. With Skip set, runs whose directory already carries a
// finished marker are left untouched and excluded from launchers.
type Generator struct {
	Output string
	Skip   bool
}

// SeqMachine writes one machine's worth of a sequential project: a script
// per run and a launcher that drives them with the job's parallelism.
func (g *Generator) SeqMachine(ctx context.Context, project, machine string, job *model.SeqJob, descs []model.RunDescriptor) error {
	scripts, _, err := g.writeRuns(ctx, job.TemplateOptions, descs)
	if err != nil {
		return err
	}
	machineDir := filepath.Join(g.Output, project, machine)
	rels, err := relAll(machineDir, scripts)
	if err != nil {
		return err
	}
	data := struct {
		Parallel int
		Scripts  []string
	}{Parallel: job.Parallel, Scripts: rels}
	var buf bytes.Buffer
	if err := seqLauncherTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("launcher for %s/%s: %w", project, machine, err)
	}
	return g.writeScript(filepath.Join(machineDir, runScript), buf.Bytes())
}

// DistMachine writes one machine's worth of a distributed project: a script
// per run, a batch file per dispatch batch, and a launcher that submits the
// batch files.
func (g *Generator) DistMachine(ctx context.Context, project, machine string, job *model.DistJob, descs []model.RunDescriptor) error {
	scripts, written, err := g.writeRuns(ctx, job.TemplateOptions, descs)
	if err != nil {
		return err
	}
	machineDir := filepath.Join(g.Output, project, machine)
	rels, err := relAll(machineDir, scripts)
	if err != nil {
		return err
	}
	relByPath := make(map[string]string, len(written))
	for i, d := range written {
		relByPath[d.Path] = rels[i]
	}

	batches := batch.Build(job, written)
	names := make([]string, len(batches))
	for i, b := range batches {
		jobs := make([]string, len(b.Runs))
		for k, d := range b.Runs {
			jobs[k] = relByPath[d.Path]
		}
		content, err := ExpandBatchFile(b.Key.DistTemplate, BatchVars{
			Walltime:  b.Key.Walltime,
			CPT:       b.Key.CPT,
			Partition: b.Key.Partition,
			Options:   b.Key.DistOptions,
			Jobs:      jobs,
		})
		if err != nil {
			return fmt.Errorf("batch %d for %s/%s: %w", i+1, project, machine, err)
		}
		names[i] = fmt.Sprintf("start%04d.dist", i+1)
		if err := fsutil.MkdirAll(machineDir); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(machineDir, names[i]), []byte(content), 0o644); err != nil {
			return err
		}
	}

	data := struct{ Batches []string }{Batches: names}
	var buf bytes.Buffer
	if err := distLauncherTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("launcher for %s/%s: %w", project, machine, err)
	}
	return g.writeScript(filepath.Join(machineDir, runScript), buf.Bytes())
}

// writeRuns materializes the run directories and scripts, returning the
// script paths and the descriptors actually written, in input order.
func (g *Generator) writeRuns(ctx context.Context, options map[string]string, descs []model.RunDescriptor) ([]string, []model.RunDescriptor, error) {
	logger := ctxlog.FromContext(ctx)
	var scripts []string
	var written []model.RunDescriptor
	for _, desc := range descs {
		if g.Skip && fsutil.Exists(filepath.Join(desc.Path, finishedMarker)) {
			logger.Debug("skipping finished run", "path", desc.Path)
			continue
		}
		script, err := g.writeRun(desc, options)
		if err != nil {
			return nil, nil, err
		}
		scripts = append(scripts, script)
		written = append(written, desc)
	}
	return scripts, written, nil
}

func (g *Generator) writeRun(desc model.RunDescriptor, options map[string]string) (string, error) {
	if err := fsutil.MkdirAll(desc.Path); err != nil {
		return "", err
	}
	vars, err := g.runVars(&desc, options)
	if err != nil {
		return "", err
	}
	content, err := ExpandFile(desc.Template, vars)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", desc.Path, err)
	}
	script := filepath.Join(desc.Path, runScript)
	if err := g.writeScript(script, []byte(content)); err != nil {
		return "", err
	}
	return script, nil
}

// runVars rewrites all referenced paths relative to the run directory so a
// generated tree stays valid when copied to the cluster as a whole.
func (g *Generator) runVars(desc *model.RunDescriptor, options map[string]string) (RunVars, error) {
	files, err := relAll(desc.Path, desc.Files)
	if err != nil {
		return RunVars{}, err
	}
	encodings, err := relAll(desc.Path, desc.Encodings)
	if err != nil {
		return RunVars{}, err
	}
	root, err := relTo(desc.Path, g.Output)
	if err != nil {
		return RunVars{}, err
	}
	vars := RunVars{
		Root:      root,
		Solver:    desc.Solver(),
		Timeout:   desc.Timeout,
		Memout:    desc.Memout,
		Files:     files,
		Encodings: encodings,
		Args:      desc.Cmdline,
		ArgsPost:  desc.CmdlinePost,
		Options:   options,
	}
	if len(files) > 0 {
		vars.File = files[0]
	}
	return vars, nil
}

func (g *Generator) writeScript(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return err
	}
	return fsutil.SetExecutable(path)
}

func relTo(dir, path string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return absPath, nil
	}
	return rel, nil
}

func relAll(dir string, paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := relTo(dir, p)
		if err != nil {
			return nil, err
		}
		out[i] = rel
	}
	return out, nil
}
