package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextHelpers_TableDriven(t *testing.T) {
	test := []struct {
		name     string
		withFunc func(context.Context) context.Context
		getFunc  func(context.Context) (string, bool)
		Value    string
		expectOk bool
	}{
		{"username - present", func(ctx context.Context) context.Context { return WithUsername(ctx, "alice") }, GetUsername, "alice", true},
		{"username - missing", func(ctx context.Context) context.Context { return ctx }, GetUsername, "", false},
		{"email - present", func(ctx context.Context) context.Context { return WithEmail(ctx, "a@b.co") }, GetEmail, "a@b.co", true},
		{"email - missing", func(ctx context.Context) context.Context { return ctx }, GetEmail, "", false},
		{"email - not confused with username", func(ctx context.Context) context.Context { return WithUsername(ctx, "alice") }, GetEmail, "", false},
	}

	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ctx = tt.withFunc(ctx)
			val, ok := tt.getFunc(ctx)
			assert.Equal(t, tt.Value, val)
			assert.Equal(t, tt.expectOk, ok)
		})
	}
}
