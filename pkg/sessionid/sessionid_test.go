package sessionid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perishable-catalog/pkg/sessionid"
)

func TestSessionID(t *testing.T) {
	t.Run("Should generate uuid v7 ids", func(t *testing.T) {
		id, err := sessionid.New()
		require.NoError(t, err)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	})

	t.Run("Should round trip through context", func(t *testing.T) {
		ctx := sessionid.NewContext(context.Background(), "abc")

		id, ok := sessionid.FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("Should report absence", func(t *testing.T) {
		_, ok := sessionid.FromContext(context.Background())
		assert.False(t, ok)
	})
}
