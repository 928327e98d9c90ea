package reconcile

import (
	"context"

	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// RunStep executes a single Step's HTTP protocol cycle (spec §4.2):
//
//  1. Send Search().
//  2. ClassifyStatus the response. StatusClassError fails with StatusError.
//  3. On StatusExists, Deserialize. On StatusDoesNotExist, skip to step 5.
//  4. CheckExists/CheckModified return directly with their entries.
//  5. CheckDoesNotExist: Create() or fail Uncreatable; send, deserialize,
//     return Created.
//  6. CheckNeedsModification: symmetrical with Modify()/Unmodifiable/Modified.
//
// The only suspension points are the two possible Transport.Do calls.
func RunStep(ctx context.Context, transport ports.Transport, step Step) (Effect, []depstore.Entry) {
	req := step.Search()
	resp, err := transport.Do(ctx, req)
	if err != nil {
		return EffectError(&TransportError{URL: req.URL, Err: err}), nil
	}

	switch step.ClassifyStatus(resp.Status) {
	case StatusClassError:
		return EffectError(&StatusError{Status: resp.Status, Method: req.Method, URL: req.URL}), nil

	case StatusDoesNotExist:
		return runCreate(ctx, transport, step, req.URL)

	default: // StatusExists
		check, err := step.Deserialize(resp.Body)
		if err != nil {
			return EffectError(&DeserializationError{URL: req.URL, Err: err}), nil
		}

		switch check.Kind {
		case CheckExists:
			return EffectUnmodified(), check.Entries
		case CheckModified:
			return EffectModified(), check.Entries
		case CheckDoesNotExist:
			return runCreate(ctx, transport, step, req.URL)
		case CheckNeedsModification:
			return runModify(ctx, transport, step, req.URL)
		default:
			return EffectError(&DeserializationError{URL: req.URL, Err: errUnknownCheckKind(check.Kind)}), nil
		}
	}
}

func runCreate(ctx context.Context, transport ports.Transport, step Step, url string) (Effect, []depstore.Entry) {
	sub := step.Create()
	if sub == nil {
		return EffectError(&UncreatableError{URL: url}), nil
	}
	return runSubRequest(ctx, transport, *sub, EffectCreated())
}

func runModify(ctx context.Context, transport ports.Transport, step Step, url string) (Effect, []depstore.Entry) {
	sub := step.Modify()
	if sub == nil {
		return EffectError(&UnmodifiableError{URL: url}), nil
	}
	return runSubRequest(ctx, transport, *sub, EffectModified())
}

func runSubRequest(ctx context.Context, transport ports.Transport, sub SubRequest, onSuccess Effect) (Effect, []depstore.Entry) {
	resp, err := transport.Do(ctx, sub.Request)
	if err != nil {
		return EffectError(&TransportError{URL: sub.Request.URL, Err: err}), nil
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return EffectError(&StatusError{Status: resp.Status, Method: sub.Request.Method, URL: sub.Request.URL}), nil
	}
	entries, err := sub.Deserialize(resp.Body)
	if err != nil {
		return EffectError(&DeserializationError{URL: sub.Request.URL, Err: err}), nil
	}
	return onSuccess, entries
}

type unknownCheckKindError struct{ kind CheckKind }

func (e unknownCheckKindError) Error() string {
	return "unknown check kind"
}

func errUnknownCheckKind(kind CheckKind) error { return unknownCheckKindError{kind: kind} }
