package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(GraphInconsistent, "edge a->b missing from reverse index")
	got := err.Error()
	if !strings.Contains(got, "GRAPH_INCONSISTENT") {
		t.Errorf("Expected code in message, got '%s'", got)
	}
	if !strings.Contains(got, "edge a->b missing from reverse index") {
		t.Errorf("Expected message text, got '%s'", got)
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := Wrap(TraceInvalid, "failed to decode trace", cause)

	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Errorf("Expected cause in message, got '%s'", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ConfigInvalid, "bad rules file").WithDetails(map[string]string{"path": "rules.toml"})
	if err.Details == nil {
		t.Error("Expected details to be set")
	}
}

func TestIsInvariant(t *testing.T) {
	testCases := []struct {
		code     ErrorCode
		expected bool
	}{
		{GraphInconsistent, true},
		{MissingEdgeSource, true},
		{InvalidCallFact, true},
		{InvalidViolation, true},
		{ConfigInvalid, false},
		{CollectFailed, false},
		{TraceInvalid, false},
		{InternalError, false},
	}

	for _, tc := range testCases {
		err := New(tc.code, "x")
		if err.IsInvariant() != tc.expected {
			t.Errorf("IsInvariant() for %s = %v, expected %v", tc.code, err.IsInvariant(), tc.expected)
		}
	}
}
