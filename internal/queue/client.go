package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vendorwatch/vendorwatch/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueSupplierAnalysis queues one enrichment cycle. Bounded retries with
// asynq's exponential backoff; exhausted jobs land in the archive for
// inspection instead of being dropped.
func (c *Client) EnqueueSupplierAnalysis(ctx context.Context, supplierID, orgID uuid.UUID) error {
	payload := SupplierAnalyzePayload{
		SupplierID:     supplierID.String(),
		OrganizationID: orgID.String(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(TypeSupplierAnalyze, data)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeSupplierAnalyze, err)
	}
	return nil
}
