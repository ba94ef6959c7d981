package specload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/benchgridgo/internal/model"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runscript.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, content string) *model.Runscript {
	t.Helper()
	rs, err := NewLoader().Load(context.Background(), writeSpec(t, content))
	require.NoError(t, err)
	return rs
}

const minimalSpec = `
output = "out"

machine "zuse" {
  cpu    = "24x2.6GHz"
  memory = "128GB"
}

config "seq-gen" {
  template = "templates/seq.sh"
}

system "clasp" "3.3.5" {
  config   = "seq-gen"
  cmdline  = "--stats"
  measures = "clasp"

  setting "default" {
    cmdline = "-q 0"
    tags    = ["basic"]
  }
}

seqjob "day" {
  timeout  = "15:00"
  runs     = 2
  parallel = 8
}

benchmark "suite" {
  folder {
    path = "instances"
  }
}

project "p1" {
  job = "day"

  runspec {
    machine   = "zuse"
    benchmark = "suite"
    system    = "clasp"
    version   = "3.3.5"
    setting   = "default"
  }
}
`

func TestLoadMinimalSpec(t *testing.T) {
	t.Parallel()

	rs := load(t, minimalSpec)
	assert.Equal(t, "out", rs.Output)

	machine, ok := rs.Machine("zuse")
	require.True(t, ok)
	assert.Equal(t, "24x2.6GHz", machine.CPU)

	sys, ok := rs.System("clasp", "3.3.5")
	require.True(t, ok)
	require.NotNil(t, sys.Config, "config reference is resolved at load time")
	assert.Equal(t, "templates/seq.sh", sys.Config.Template)
	assert.Equal(t, "clasp", sys.Measures)
	require.Len(t, sys.Settings, 1)
	assert.Equal(t, "-q 0", sys.Settings[0].Cmdline)
	assert.True(t, sys.Settings[0].Tags.Has("basic"))
	assert.Equal(t, model.DefaultDistTemplate, sys.Settings[0].DistTemplate)

	job, ok := rs.Job("day")
	require.True(t, ok)
	seq, ok := job.(*model.SeqJob)
	require.True(t, ok)
	assert.Equal(t, 900, seq.Timeout)
	assert.Equal(t, 2, seq.Runs)
	assert.Equal(t, 8, seq.Parallel)
	assert.Equal(t, model.DefaultMemout, seq.Memout)

	bench, ok := rs.Benchmark("suite")
	require.True(t, ok)
	require.Len(t, bench.Sources, 1)

	require.Len(t, rs.Projects, 1)
	require.Len(t, rs.Projects[0].Selections, 1)
	spec, ok := rs.Projects[0].Selections[0].(model.RunSpec)
	require.True(t, ok)
	assert.Equal(t, "default", spec.Setting)
}

func TestLoadExpandsSettingVariables(t *testing.T) {
	t.Parallel()

	rs := load(t, `
output = "out"

config "seq-gen" {
  template = "templates/seq.sh"
}

system "clasp" "3.3.5" {
  config = "seq-gen"

  setting "fast" {
    cmdline = "-q"
    variable {
      cmd   = "-t {value}"
      range = "1,2,1"
    }
    variable {
      cmd    = "--heu"
      values = "vsids;berkmin"
    }
  }
}
`)

	sys, ok := rs.System("clasp", "3.3.5")
	require.True(t, ok)
	require.Len(t, sys.Settings, 4)
	assert.Equal(t, "fast_1_vsids", sys.Settings[0].Name)
	assert.Equal(t, "-q -t 1 --heu=vsids", sys.Settings[0].Cmdline)

	family := sys.SettingFamily("fast")
	assert.Len(t, family, 4, "the base name selects the whole family")
	assert.Len(t, sys.SettingFamily("fast_2_berkmin"), 1)
	assert.Empty(t, sys.SettingFamily("nope"))
}

func TestLoadDistJobDefaults(t *testing.T) {
	t.Parallel()

	rs := load(t, `
output = "out"

distjob "cluster" {
  timeout  = "1:0:0"
  walltime = "24:0:0"
  cpt      = 8

  accountname = "benchmarks"
  nice        = 100
}
`)

	job, ok := rs.Job("cluster")
	require.True(t, ok)
	dist, ok := job.(*model.DistJob)
	require.True(t, ok)
	assert.Equal(t, model.ScriptModeTimeout, dist.ScriptMode)
	assert.Equal(t, 86400, dist.Walltime)
	assert.Equal(t, model.DefaultPartition, dist.Partition)
	assert.Equal(t, 1, dist.Runs)
	assert.Equal(t, "benchmarks", dist.TemplateOptions["accountname"])
	assert.Equal(t, "100", dist.TemplateOptions["nice"], "numeric options are carried as strings")
}

func TestLoadDistJobRequiresWalltimeForTimeoutMode(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), writeSpec(t, `
output = "out"

distjob "cluster" {
  timeout = "1:0:0"
}
`))
	assert.ErrorContains(t, err, "walltime")
}

func TestLoadMultiModeWithoutWalltime(t *testing.T) {
	t.Parallel()

	rs := load(t, `
output = "out"

distjob "cluster" {
  timeout     = "1:0:0"
  script_mode = "multi"
}
`)
	dist := rs.Jobs[0].(*model.DistJob)
	assert.Equal(t, model.ScriptModeMulti, dist.ScriptMode)
	assert.Zero(t, dist.Walltime)
}

func TestLoadAccumulatesErrors(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), writeSpec(t, `
output = "out"

machine "m" {}
machine "m" {}

system "clasp" "3.3.5" {
  config = "nosuchconfig"
}

seqjob "j" {
  timeout  = "bogus"
  parallel = 1
}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate machine "m"`)
	assert.Contains(t, err.Error(), "nosuchconfig")
	assert.Contains(t, err.Error(), "invalid timeout")
}

func TestLoadRequiresOutput(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), writeSpec(t, `
machine "m" {}
`))
	assert.ErrorContains(t, err, "output")
}

func TestLoadMergesMultipleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`
output = "out"

machine "m1" {}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
machine "m2" {}
`), 0o644))

	rs, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	_, ok := rs.Machine("m1")
	assert.True(t, ok)
	_, ok = rs.Machine("m2")
	assert.True(t, ok)
}

func TestLoadDirectorySkipsNestedBenchmarkSpecs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runscript.hcl"), []byte(`
output = "out"

machine "m" {}
`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bench"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bench", "benchspec.hcl"), []byte(`
class "c" {
  instance "i" {
    file = "i.lp"
  }
}
`), 0o644))

	rs, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err, "nested benchmark specs are not runscript files")
	_, ok := rs.Machine("m")
	assert.True(t, ok)
}

func TestLoadRejectsDuplicateSettingEncoding(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), writeSpec(t, `
output = "out"

config "c" {
  template = "t.sh"
}

system "s" "1" {
  config = "c"

  setting "d" {
    encoding {
      file = "enc.lp"
    }
    encoding {
      file = "enc.lp"
    }
  }
}
`))
	assert.ErrorContains(t, err, "declared twice")
}