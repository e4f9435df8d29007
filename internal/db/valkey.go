package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_RESULTS_KEY = "feedback:results"
	VALKEY_RESULTS_CAP = 1000
)

// ValkeyGateway keeps the most recent records in a capped list, newest first.
type ValkeyGateway struct {
	client valkey.Client
	key    string
	cap    int64
}

func NewValkeyGateway(client valkey.Client) *ValkeyGateway {
	return &ValkeyGateway{client: client, key: VALKEY_RESULTS_KEY, cap: VALKEY_RESULTS_CAP}
}

func (g *ValkeyGateway) Name() string { return "valkey" }

func (g *ValkeyGateway) Save(ctx context.Context, record models.FeedbackRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return &models.PersistenceError{Backend: g.Name(), Err: err}
	}

	cmds := valkey.Commands{
		g.client.B().Lpush().Key(g.key).Element(string(payload)).Build(),
		g.client.B().Ltrim().Key(g.key).Start(0).Stop(g.cap - 1).Build(),
	}
	for _, res := range g.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &models.PersistenceError{Backend: g.Name(), Err: fmt.Errorf("[ValkeyClient] %w", err)}
		}
	}
	return nil
}

// Recent returns up to n records, newest first. n <= 0 returns nothing.
func (g *ValkeyGateway) Recent(ctx context.Context, n int64) ([]models.FeedbackRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := g.client.Do(ctx, g.client.B().Lrange().Key(g.key).Start(0).Stop(n-1).Build()).AsStrSlice()
	if err != nil {
		return nil, err
	}
	records := make([]models.FeedbackRecord, 0, len(raw))
	for _, r := range raw {
		var rec models.FeedbackRecord
		if err := json.Unmarshal([]byte(r), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// FindValkey returns the Valkey gateway inside gw, or nil when it is not enabled.
func FindValkey(gw Gateway) *ValkeyGateway {
	switch g := gw.(type) {
	case *ValkeyGateway:
		return g
	case *Fanout:
		for _, inner := range g.gateways {
			if v, ok := inner.(*ValkeyGateway); ok {
				return v
			}
		}
	}
	return nil
}
