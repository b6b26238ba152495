package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing marks a required endpoint or credential absent
	// at startup. Fatal for the process, never produced per-request.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrCollaboratorUnavailable marks a failed or timed-out call to an
	// external collaborator (generation, retrieval, rerank, guardrail).
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrMalformedResponse marks an unparseable or inconsistent collaborator
	// reply, e.g. a score list whose length disagrees with the input.
	ErrMalformedResponse = errors.New("malformed collaborator response")

	// ErrTemporary tags transient failures for the resilience layer.
	ErrTemporary = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
