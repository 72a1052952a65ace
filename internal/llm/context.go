package llm

import "context"

type contextKey string

const operationKey contextKey = "llm_operation"

// WithOperation attaches an operation label to the context. The label names
// the logical call ("question-generation", "answer-evaluation") in exhaustion
// errors and in the request log.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// OperationFrom extracts the operation label from the context.
func OperationFrom(ctx context.Context) string {
	if v, ok := ctx.Value(operationKey).(string); ok {
		return v
	}
	return "llm-call"
}
