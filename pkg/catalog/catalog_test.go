package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/pkg/model"
)

func TestTasks_UniqueIDsAndServiceNames(t *testing.T) {
	got := Tasks()
	require.Len(t, got, 12)
	ids := map[string]bool{}
	for _, task := range got {
		assert.False(t, ids[task.ID], "duplicate task id %s", task.ID)
		ids[task.ID] = true
		require.NotEmpty(t, task.Services, "task %s has no services", task.ID)
		names := map[string]bool{}
		for _, s := range task.Services {
			assert.False(t, names[s.Name], "duplicate service %q in task %s", s.Name, task.ID)
			names[s.Name] = true
			assert.Equal(t, model.StateUnset, s.State)
			assert.Empty(t, s.Comment)
		}
	}
}

func TestTasks_ReturnsIndependentCopies(t *testing.T) {
	first := Tasks()
	first[0].System = "changed"
	first[0].Services[0].Comment = "changed"

	second := Tasks()
	assert.Equal(t, "Internet Services", second[0].System)
	assert.Empty(t, second[0].Services[0].Comment)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{Organisation, Department, FormCode, FormTitle}, Header())
	assert.Equal(t, 12, Len())
}
