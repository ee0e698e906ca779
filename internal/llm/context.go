package llm

import "context"

// Purpose labels recorded with every logged call.
const (
	PurposeQuestionGen = "question-gen"
	PurposeCoaching    = "coaching"
	purposeUnknown     = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx so the logging wrapper can attribute the call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, _ := ctx.Value(purposeKey{}).(string); v != "" {
		return v
	}
	return purposeUnknown
}
