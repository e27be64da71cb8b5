package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/recipebox/recipebox/internal/recipe"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding recipe documents.
const CollectionName = "recipes"

// mongoRecipe is the stored shape; _id is a native ObjectID.
type mongoRecipe struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Image       string             `bson:"image,omitempty"`
	Ingredients []string           `bson:"ingredients"`
	Steps       []string           `bson:"steps"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *mongoRecipe) toRecipe() *recipe.Recipe {
	r := &recipe.Recipe{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Ingredients: d.Ingredients,
		Steps:       d.Steps,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return r
}

// MongoRepo implements Repository on top of a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col, now: time.Now}
}

// EnsureIndexes creates the creation-time index used by List.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create createdAt index: %w", err)
	}
	return nil
}

func (m *MongoRepo) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Millisecond)
}

func (m *MongoRepo) Create(ctx context.Context, in recipe.Input) (*recipe.Recipe, error) {
	if err := checkSchema(in); err != nil {
		return nil, err
	}
	in = in.Normalize()
	now := m.timestamp()
	doc := &mongoRecipe{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	return doc.toRecipe(), nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var d mongoRecipe
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return d.toRecipe(), nil
}

// List returns every recipe ordered by createdAt descending.
func (m *MongoRepo) List(ctx context.Context) ([]*recipe.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	defer cur.Close(ctx)
	out := []*recipe.Recipe{}
	for cur.Next(ctx) {
		var d mongoRecipe
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		out = append(out, d.toRecipe())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return out, nil
}

// Update replaces the editable fields and returns the post-update document.
func (m *MongoRepo) Update(ctx context.Context, id string, in recipe.Input) (*recipe.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := checkSchema(in); err != nil {
		// an unknown id is reported before a bad payload
		if exErr := m.exists(ctx, oid); exErr != nil {
			return nil, exErr
		}
		return nil, err
	}
	in = in.Normalize()
	set := bson.M{
		"title":       in.Title,
		"description": in.Description,
		"ingredients": in.Ingredients,
		"steps":       in.Steps,
		"tags":        in.Tags,
		"updatedAt":   m.timestamp(),
	}
	update := bson.M{"$set": set}
	if in.Image != "" {
		set["image"] = in.Image
	} else {
		update["$unset"] = bson.M{"image": ""}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d mongoRecipe
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return d.toRecipe(), nil
}

func (m *MongoRepo) exists(ctx context.Context, oid primitive.ObjectID) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := m.col.FindOne(ctx, bson.M{"_id": oid}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup recipe: %w", err)
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}
