package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	old := Build
	t.Cleanup(func() { Build = old })

	Build = "2026-10-17"
	assert.Equal(t, "netcheck/2026-10-17", UserAgent())
}
