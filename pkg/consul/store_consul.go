//go:build consul

package consul

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	consulapi "github.com/hashicorp/consul/api"

	"netcheck/pkg/model"
)

const submissionPrefix = "netcheck/submissions/"

// Store keeps the central submission log in Consul KV, one key per submission.
type Store struct {
	cli *consulapi.Client
}

// NewStore connects to the agent at addr, or the default address when empty.
func NewStore(addr string) (*Store, error) {
	cfg := consulapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	cli, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return &Store{cli: cli}, nil
}

func (s *Store) Append(ctx context.Context, sub model.Submission) error {
	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = time.Now().UTC()
	}
	b, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%020d-%s", submissionPrefix, sub.ReceivedAt.UnixNano(), sub.ID)
	_, err = s.cli.KV().Put(&consulapi.KVPair{Key: key, Value: b}, (&consulapi.WriteOptions{}).WithContext(ctx))
	return err
}

func (s *Store) List(ctx context.Context, limit int) ([]model.Submission, error) {
	pairs, _, err := s.cli.KV().List(submissionPrefix, (&consulapi.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return decodeSubmissions(pairs, limit)
}

// decodeSubmissions orders pairs newest first. A value that does not decode
// fails the whole listing.
func decodeSubmissions(pairs consulapi.KVPairs, limit int) ([]model.Submission, error) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key > pairs[j].Key })
	var out []model.Submission
	for _, p := range pairs {
		if limit > 0 && len(out) == limit {
			break
		}
		var sub model.Submission
		if err := json.Unmarshal(p.Value, &sub); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Key, err)
		}
		out = append(out, sub)
	}
	return out, nil
}

// Ping checks that the agent answers and a leader is elected.
func (s *Store) Ping(ctx context.Context) error {
	leader, err := s.cli.Status().LeaderWithQueryOptions((&consulapi.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return fmt.Errorf("consul status: %w", err)
	}
	if leader == "" {
		return fmt.Errorf("consul has no leader")
	}
	return nil
}
