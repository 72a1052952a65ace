// Package hybrid fans every request out to a primary and a secondary LLM
// provider and applies a deterministic policy to their results: pick the
// better question text, or merge two evaluations into one. A single
// provider failing is absorbed; only both failing surfaces an error.
package hybrid

import (
	"context"
	"fmt"
	"sync"

	"github.com/rteja/assessly/internal/llm"
)

// Client orchestrates two providers. The primary provider breaks ties and
// is authoritative for asymmetric merge fields.
type Client struct {
	primary   llm.Provider
	secondary llm.Provider
}

// New creates a Client over the given providers.
func New(primary, secondary llm.Provider) *Client {
	return &Client{primary: primary, secondary: secondary}
}

// outcome tags one leg's result: a response or an error, never both.
type outcome struct {
	resp *llm.Response
	err  error
}

// invokeBoth runs the request on both providers concurrently and waits for
// both legs. Neither leg cancels the other: a slow-but-successful leg is
// still used even when the other has already failed.
func (c *Client) invokeBoth(ctx context.Context, req llm.Request) (primary, secondary outcome) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		primary.resp, primary.err = c.primary.Generate(ctx, req)
	}()
	go func() {
		defer wg.Done()
		secondary.resp, secondary.err = c.secondary.Generate(ctx, req)
	}()

	wg.Wait()
	return primary, secondary
}

// ErrBothProvidersFailed is returned when neither leg produced a usable
// result. It carries both leg failures.
type ErrBothProvidersFailed struct {
	Primary   error
	Secondary error
}

func (e *ErrBothProvidersFailed) Error() string {
	return fmt.Sprintf("both providers failed: primary: %v; secondary: %v", e.Primary, e.Secondary)
}

func (e *ErrBothProvidersFailed) Unwrap() []error {
	return []error{e.Primary, e.Secondary}
}
