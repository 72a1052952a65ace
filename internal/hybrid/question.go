package hybrid

import (
	"context"
	"errors"
	"strings"

	"github.com/rteja/assessly/internal/llm"
)

var errEmptyText = errors.New("provider returned empty text")

// BestText runs the request on both providers and returns the better
// question text. A leg that errors or returns whitespace-only text has
// failed; if only one leg survives its text wins by default, and if both
// survive the higher heuristic score wins with ties going to the primary.
func (c *Client) BestText(ctx context.Context, req llm.Request) (string, error) {
	pOut, sOut := c.invokeBoth(ctx, req)

	pText, pErr := textResult(pOut)
	sText, sErr := textResult(sOut)

	switch {
	case pErr != nil && sErr != nil:
		return "", &ErrBothProvidersFailed{Primary: pErr, Secondary: sErr}
	case pErr != nil:
		return sText, nil
	case sErr != nil:
		return pText, nil
	}

	if scoreQuestion(sText) > scoreQuestion(pText) {
		return sText, nil
	}
	return pText, nil
}

func textResult(out outcome) (string, error) {
	if out.err != nil {
		return "", out.err
	}
	text := strings.TrimSpace(string(out.resp.Content))
	if text == "" {
		return "", errEmptyText
	}
	return text, nil
}
