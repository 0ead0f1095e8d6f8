package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/utils"
)

func TestUserRepo_Find(t *testing.T) {
	mt := newMockT(t)

	mt.Run("by email", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "devconnect.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ada"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "password", Value: "hash"},
		}))

		u, err := repo.FindByEmail(context.Background(), " Ada@Example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, "hash", u.Password)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "devconnect.users", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, utils.ErrNotFound)
	})
}

func TestUserRepo_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("normalizes email", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Name: "Ada", Email: " Ada@Example.com "}
		require.NoError(mt, repo.Create(context.Background(), u))
		assert.Equal(mt, "ada@example.com", u.Email)
		assert.False(mt, u.ID.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.User{Email: "ada@example.com"})
		assert.ErrorIs(mt, err, utils.ErrConflict)
	})
}
