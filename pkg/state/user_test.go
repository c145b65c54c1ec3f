package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentUser(t *testing.T) {
	assert.Equal(t, uint(0), CurrentUser(context.Background()))

	ctx := SetCurrentUser(context.Background(), 42)
	assert.Equal(t, uint(42), CurrentUser(ctx))

	wrongType := context.WithValue(context.Background(), CurrentUserId, 42)
	assert.Equal(t, uint(0), CurrentUser(wrongType))
}
