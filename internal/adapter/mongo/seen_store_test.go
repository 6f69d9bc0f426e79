package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSeenStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("exists when a document matches", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "abc"}}))

		ok, err := NewSeenStore(mt.Coll).Exists(context.Background(), "https://gk/a")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("missing when no document matches", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		ok, err := NewSeenStore(mt.Coll).Exists(context.Background(), "https://gk/a")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewSeenStore(mt.Coll).Insert(context.Background(), "https://gk/a")
		require.NoError(mt, err)
	})

	mt.Run("duplicate insert is not an error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := NewSeenStore(mt.Coll).Insert(context.Background(), "https://gk/a")
		assert.NoError(mt, err)
	})

	mt.Run("other write errors surface", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		err := NewSeenStore(mt.Coll).Insert(context.Background(), "https://gk/a")
		assert.Error(mt, err)
	})
}
