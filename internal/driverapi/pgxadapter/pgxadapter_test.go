package pgxadapter

import (
	"context"
	"testing"
)

func TestNew_MalformedDSNErrors(t *testing.T) {
	_, err := New(context.Background(), "not a valid connection string")
	if err == nil {
		t.Fatalf("New(malformed dsn) = nil error, want a parse error")
	}
}
