package repository

import (
	"context"
	"testing"
	"time"

	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "test.recipes"

func storedDoc(id primitive.ObjectID, title string, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: "Hot drink"},
		{Key: "ingredients", Value: bson.A{"water", "tea leaves"}},
		{Key: "steps", Value: bson.A{"boil", "steep"}},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(at)},
		{Key: "updatedAt", Value: primitive.NewDateTimeFromTime(at)},
	}
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec, err := repo.Create(ctx, teaInput())
		require.NoError(mt, err)
		require.Len(mt, rec.ID, 24)
		require.Equal(mt, "Tea", rec.Title)
		require.Equal(mt, []string{}, rec.Tags)
	})

	mt.Run("create rejects schema violation", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		_, err := repo.Create(ctx, recipe.Input{Title: "x"})
		require.ErrorIs(mt, err, ErrSchema)
	})

	mt.Run("get", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, storedDoc(id, "Tea", at)))
		rec, err := repo.Get(ctx, id.Hex())
		require.NoError(mt, err)
		require.Equal(mt, id.Hex(), rec.ID)
		require.Equal(mt, []string{"water", "tea leaves"}, rec.Ingredients)
		require.Equal(mt, []string{}, rec.Tags)
		require.True(mt, at.Equal(rec.CreatedAt))
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := repo.Get(ctx, primitive.NewObjectID().Hex())
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		_, err := repo.Get(ctx, "not-an-object-id")
		require.ErrorIs(mt, err, ErrNotFound)
		_, err = repo.Update(ctx, "not-an-object-id", teaInput())
		require.ErrorIs(mt, err, ErrNotFound)
		require.ErrorIs(mt, repo.Delete(ctx, "not-an-object-id"), ErrNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		newer, older := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, storedDoc(newer, "B", at.Add(time.Hour))),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, storedDoc(older, "A", at)),
		)
		list, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		require.Equal(mt, newer.Hex(), list[0].ID)
		require.Equal(mt, older.Hex(), list[1].ID)
	})

	mt.Run("list error", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom", Name: "BadValue"}))
		_, err := repo.List(ctx)
		require.Error(mt, err)
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedDoc(id, "Iced Tea", at)}))
		in := teaInput()
		in.Title = "Iced Tea"
		rec, err := repo.Update(ctx, id.Hex(), in)
		require.NoError(mt, err)
		require.Equal(mt, "Iced Tea", rec.Title)
		require.Equal(mt, id.Hex(), rec.ID)
	})

	mt.Run("update schema violation on missing id", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		bad := teaInput()
		bad.Title = ""
		_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), bad)
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update schema violation on existing id", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, storedDoc(id, "Tea", at)))
		bad := teaInput()
		bad.Title = ""
		_, err := repo.Update(ctx, id.Hex(), bad)
		require.ErrorIs(mt, err, ErrSchema)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		require.NoError(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		require.ErrorIs(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()), ErrNotFound)
	})
}
