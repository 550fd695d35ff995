//go:build consul

package store

import (
	"netcheck/pkg/consul"
)

// NewConsulStore creates a Consul-backed submission log (requires build tag consul).
func NewConsulStore(addr string) (SubmissionStore, error) {
	return consul.NewStore(addr)
}
