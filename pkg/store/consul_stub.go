//go:build !consul

package store

import "fmt"

// NewConsulStore reports that the binary was built without Consul support.
func NewConsulStore(addr string) (SubmissionStore, error) {
	return nil, fmt.Errorf("consul store requested (addr=%s) but consul build tag not enabled", addr)
}
