package queue

import (
	"context"
	"errors"
	"sync"

	"talentflow-api/internal/shared/telemetry"
)

// HandlerFunc consumes one message.
type HandlerFunc func(ctx context.Context, msg Message) error

// LocalClient delivers messages to an in-process handler. It stands in for SQS in dev.
type LocalClient struct {
	mu      sync.RWMutex
	handler HandlerFunc
	sem     chan struct{}
	wg      sync.WaitGroup
}

// NewLocalClient constructs a LocalClient that runs at most concurrency handlers at once.
func NewLocalClient(concurrency int) *LocalClient {
	if concurrency < 1 {
		concurrency = 1
	}
	return &LocalClient{sem: make(chan struct{}, concurrency)}
}

// SetHandler installs the consumer. Messages sent before a handler exists are rejected.
func (c *LocalClient) SetHandler(h HandlerFunc) {
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// Send hands the message to the handler on a background goroutine.
// The handler outlives the caller's request but keeps its values.
func (c *LocalClient) Send(ctx context.Context, msg Message) error {
	c.mu.RLock()
	h := c.handler
	c.mu.RUnlock()
	if h == nil {
		return errors.New("local queue has no handler")
	}

	bg := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.sem <- struct{}{}
		defer func() { <-c.sem }()
		if err := h(bg, msg); err != nil {
			telemetry.Error("queue.local.failed", map[string]any{
				"application_id": msg.ApplicationID,
				"request_id":     msg.RequestID,
				"error":          err.Error(),
			})
		}
	}()
	return nil
}

// Wait blocks until every dispatched message has been handled.
func (c *LocalClient) Wait() {
	c.wg.Wait()
}

var _ Client = (*LocalClient)(nil)
