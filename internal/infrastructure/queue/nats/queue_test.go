package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
)

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		recorded  bool
	}{
		{"cancelled", context.Canceled, false, false},
		{"deadline", context.DeadlineExceeded, false, false},
		{"closed", nats.ErrConnectionClosed, false, true},
		{"draining", nats.ErrConnectionDraining, false, true},
		{"other", errors.New("slow consumer"), true, true},
	}

	for _, tc := range cases {
		got := classifyNATSError(tc.err)
		if got.Retryable != tc.retryable || got.RecordFailure != tc.recorded {
			t.Fatalf("%s: expected retryable=%v recorded=%v, got %+v", tc.name, tc.retryable, tc.recorded, got)
		}
	}
}
