package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/benchgridgo/internal/model"
)

func distJob(mode model.ScriptMode, walltime int) *model.DistJob {
	return &model.DistJob{
		JobCommon:  model.JobCommon{Name: "cluster", Timeout: 3600, Runs: 1},
		ScriptMode: mode,
		Walltime:   walltime,
		CPT:        4,
		Partition:  model.DefaultPartition,
	}
}

func descriptors(n, timeout int) []model.RunDescriptor {
	descs := make([]model.RunDescriptor, n)
	for i := range descs {
		descs[i] = model.RunDescriptor{
			Instance:     fmt.Sprintf("inst%03d", i),
			Path:         fmt.Sprintf("out/p/m/results/b/s/c/inst%03d/run1", i),
			Timeout:      timeout,
			DistTemplate: model.DefaultDistTemplate,
		}
	}
	return descs
}

// TestBuildTimeoutMode validates greedy first-fit packing: 100 one-hour
// runs against a 25 hour walltime yield four batches of 25.
func TestBuildTimeoutMode(t *testing.T) {
	t.Parallel()

	job := distJob(model.ScriptModeTimeout, 25*3600)
	batches := Build(job, descriptors(100, 3600))

	require.Len(t, batches, 4)
	for _, b := range batches {
		assert.Len(t, b.Runs, 25)
		assert.Equal(t, 25*3600, b.Cost())
	}
	assert.Equal(t, "inst000", batches[0].Runs[0].Instance)
	assert.Equal(t, "inst025", batches[1].Runs[0].Instance)
}

func TestBuildTimeoutModeBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	// Two runs fill the walltime exactly; the third opens a new batch.
	job := distJob(model.ScriptModeTimeout, 7200)
	batches := Build(job, descriptors(3, 3600))

	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Runs, 2)
	assert.Len(t, batches[1].Runs, 1)
}

func TestBuildMultiMode(t *testing.T) {
	t.Parallel()

	job := distJob(model.ScriptModeMulti, 0)
	batches := Build(job, descriptors(5, 3600))

	require.Len(t, batches, 5)
	for i, b := range batches {
		require.Len(t, b.Runs, 1)
		assert.Equal(t, fmt.Sprintf("inst%03d", i), b.Runs[0].Instance)
	}
}

// TestBuildGroupsByDispatchKey validates that runs with different dispatch
// parameters never share a batch, even under timeout packing.
func TestBuildGroupsByDispatchKey(t *testing.T) {
	t.Parallel()

	job := distJob(model.ScriptModeTimeout, 25*3600)
	descs := descriptors(4, 3600)
	descs[1].DistTemplate = "templates/other.dist"
	descs[3].DistTemplate = "templates/other.dist"

	batches := Build(job, descs)
	require.Len(t, batches, 2)

	keys := map[string]int{}
	for _, b := range batches {
		keys[b.Key.DistTemplate] = len(b.Runs)
	}
	assert.Equal(t, 2, keys[model.DefaultDistTemplate])
	assert.Equal(t, 2, keys["templates/other.dist"])
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	job := distJob(model.ScriptModeTimeout, 3600)
	assert.Empty(t, Build(job, nil))
}
