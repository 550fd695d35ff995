//go:build consul

package consul

import (
	"encoding/json"
	"testing"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/pkg/model"
)

func pair(t *testing.T, key string, sub model.Submission) *consulapi.KVPair {
	t.Helper()
	b, err := json.Marshal(sub)
	require.NoError(t, err)
	return &consulapi.KVPair{Key: key, Value: b}
}

func TestDecodeSubmissions_NewestFirstWithLimit(t *testing.T) {
	pairs := consulapi.KVPairs{
		pair(t, submissionPrefix+"001-a", model.Submission{ID: "a"}),
		pair(t, submissionPrefix+"003-c", model.Submission{ID: "c"}),
		pair(t, submissionPrefix+"002-b", model.Submission{ID: "b"}),
	}
	got, err := decodeSubmissions(pairs, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestDecodeSubmissions_DamagedValueFails(t *testing.T) {
	pairs := consulapi.KVPairs{
		pair(t, submissionPrefix+"001-a", model.Submission{ID: "a"}),
		{Key: submissionPrefix + "002-bad", Value: []byte("{not json")},
	}
	_, err := decodeSubmissions(pairs, 0)
	assert.ErrorContains(t, err, "002-bad")
}
