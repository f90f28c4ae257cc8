package quality

import (
	"context"
	"fmt"

	"mithaq/internal/gateway"
	"mithaq/internal/logging"
	"mithaq/internal/prompt"
)

// Invoker is the model call dependency, satisfied by *gateway.Client.
type Invoker interface {
	Invoke(ctx context.Context, spec *prompt.Spec, modelID string, opts gateway.Options) (string, error)
}

// maxAttempts is the total generation budget: the initial attempt plus one
// corrective regeneration.
const maxAttempts = 2

// Loop drives generate -> judge -> correct cycles against one model client.
type Loop struct {
	client Invoker
}

// NewLoop creates a judge loop over the given model client.
func NewLoop(client Invoker) *Loop {
	return &Loop{client: client}
}

// Run executes one quality-controlled generation. The original specification
// stays the judge's ground truth on every attempt; only the generation
// specification is swapped for a correction prompt after a rejection.
//
// Failure semantics: generation call errors and judge call errors terminate
// immediately without consuming further attempts. Only a parsed REJECTED
// verdict spends the retry budget.
func (l *Loop) Run(ctx context.Context, original *prompt.Spec, modelID string, opts gateway.Options) (string, error) {
	spec := original
	var lastVerdict *Verdict

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logging.JudgeDebug("Run: attempt %d/%d prompt=%q", attempt, maxAttempts, spec.PromptDetails.Title)

		text, err := l.client.Invoke(ctx, spec, modelID, opts)
		if err != nil {
			return "", fmt.Errorf("generation attempt %d: %w", attempt, err)
		}

		verdict, err := l.judge(ctx, original, text, modelID)
		if err != nil {
			return "", err
		}

		if verdict.Decision == DecisionApproved {
			logging.Judge("Run: approved on attempt %d/%d", attempt, maxAttempts)
			return text, nil
		}

		logging.JudgeWarn("Run: rejected on attempt %d/%d: %s (%d errors)",
			attempt, maxAttempts, verdict.Reason, len(verdict.Errors))
		lastVerdict = verdict
		spec = prompt.Correction(original, verdict.Reason, verdict.Errors)
	}

	logging.JudgeError("Run: retry budget exhausted: %s", lastVerdict.Reason)
	return "", &RejectedError{Reason: lastVerdict.Reason, Errors: lastVerdict.Errors}
}

// judge audits one candidate against the original specification. A transport
// failure or an unreadable verdict is terminal for the whole request; it is
// never treated as an approval.
func (l *Loop) judge(ctx context.Context, original *prompt.Spec, candidate, modelID string) (*Verdict, error) {
	judgeSpec := prompt.Judge(original, candidate)

	raw, err := l.client.Invoke(ctx, judgeSpec, modelID, gateway.Options{
		ResponseSchema: prompt.JudgeResponseSchema(),
	})
	if err != nil {
		logging.JudgeError("judge: call failed: %v", err)
		return nil, fmt.Errorf("judge call: %w", err)
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		logging.JudgeError("judge: unreadable verdict: %.200s", raw)
		return nil, err
	}
	return verdict, nil
}
