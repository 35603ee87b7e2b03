package relay

import (
	"context"
	"errors"

	"findit/internal/service/vision"
)

// OutcomeKind says what the stream loop does with a processed frame.
type OutcomeKind int

const (
	// Emit sends Frame to the consumer.
	Emit OutcomeKind = iota
	// Skip drops the frame and keeps streaming.
	Skip
	// Fail ends the stream with Reason.
	Fail
)

func (k OutcomeKind) String() string {
	switch k {
	case Emit:
		return "emit"
	case Skip:
		return "skip"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// Outcome is the per-frame result of the annotation step.
type Outcome struct {
	Kind   OutcomeKind
	Frame  []byte
	Reason error
}

// process turns one extracted frame into an Outcome. Without annotation the
// extracted bytes go out untouched. Annotation failures are per-frame: the
// frame is dropped (or passed through raw when configured) and the stream
// continues. Only cancellation ends the stream from here.
func (r *Relay) process(ctx context.Context, frame []byte, annotate bool) Outcome {
	if !annotate {
		return Outcome{Kind: Emit, Frame: frame}
	}

	result, err := r.capability.Infer(ctx, frame)
	switch {
	case err == nil && result != nil && len(result.Annotated) > 0:
		return Outcome{Kind: Emit, Frame: result.Annotated}
	case err == nil:
		err = vision.ErrEncode
	case ctx.Err() != nil:
		return Outcome{Kind: Fail, Reason: ctx.Err()}
	case errors.Is(err, vision.ErrUnavailable):
		// Model went away; degrade to pass-through.
		return Outcome{Kind: Emit, Frame: frame}
	}

	if r.opts.PassThroughOnError {
		return Outcome{Kind: Emit, Frame: frame, Reason: err}
	}
	return Outcome{Kind: Skip, Reason: err}
}
