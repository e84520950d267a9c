package mongo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
	tmongo "github.com/dmitrymomot/textfix/pkg/mongo"
	"github.com/dmitrymomot/textfix/pkg/reconcile"
	"github.com/dmitrymomot/textfix/pkg/textnorm"
)

type fakeCollection struct {
	docs      []any
	findErr   error
	filters   []any
	updates   []any
	updateIDs []any
	matched   int64
	updateErr error
}

func (f *fakeCollection) Find(_ context.Context, filter any, _ ...options.Lister[options.FindOptions]) (*mongo.Cursor, error) {
	f.filters = append(f.filters, filter)
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func (f *fakeCollection) UpdateOne(_ context.Context, filter any, update any, _ ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error) {
	f.updateIDs = append(f.updateIDs, filter)
	f.updates = append(f.updates, update)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &mongo.UpdateResult{MatchedCount: f.matched, ModifiedCount: f.matched}, nil
}

func extJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, true, false)
	require.NoError(t, err)
	return string(data)
}

func TestNewCollection(t *testing.T) {
	_, err := tmongo.NewCollection(nil, "")
	assert.ErrorIs(t, err, tmongo.ErrInvalidCollection)

	_, err = tmongo.NewCollection(&fakeCollection{}, "uuid")
	assert.ErrorIs(t, err, tmongo.ErrInvalidCollection)

	c, err := tmongo.NewCollection(&fakeCollection{}, "")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCollectionListPage(t *testing.T) {
	oid1 := bson.NewObjectID()
	oid2 := bson.NewObjectID()

	t.Run("reads flat and structured fields", func(t *testing.T) {
		fake := &fakeCollection{docs: []any{
			bson.D{
				{Key: "_id", Value: oid1},
				{Key: "name", Value: "CafÃ©"},
				{Key: "itinerary", Value: bson.A{bson.D{{Key: "day", Value: int32(1)}, {Key: "title", Value: "Tom &amp; Jerry"}}}},
			},
			bson.D{
				{Key: "_id", Value: oid2},
				{Key: "name", Value: nil},
			},
		}}
		c, err := tmongo.NewCollection(fake, tmongo.IDObjectID)
		require.NoError(t, err)

		recs, err := c.ListPage(context.Background(), reconcile.PageQuery{
			Limit:            2,
			Fields:           []string{"name"},
			StructuredFields: []string{"itinerary"},
			Filter:           reconcile.Filter{"deletedAt": nil},
		})
		require.NoError(t, err)
		require.Len(t, recs, 2)

		assert.Equal(t, oid1.Hex(), recs[0].ID)
		assert.Equal(t, jsonvalue.String("CafÃ©"), recs[0].Fields["name"])
		assert.Equal(t, []string{"1", "Tom &amp; Jerry"}, jsonvalue.Strings(recs[0].Fields["itinerary"]))

		assert.Equal(t, oid2.Hex(), recs[1].ID)
		assert.True(t, recs[1].Fields["name"].IsNull())
		assert.True(t, recs[1].Fields["itinerary"].IsNull())

		require.Len(t, fake.filters, 1)
		assert.Equal(t, bson.D{{Key: "deletedAt", Value: nil}}, fake.filters[0])
	})

	t.Run("cursor becomes $gt on _id", func(t *testing.T) {
		fake := &fakeCollection{}
		c, err := tmongo.NewCollection(fake, tmongo.IDObjectID)
		require.NoError(t, err)

		recs, err := c.ListPage(context.Background(), reconcile.PageQuery{After: oid1.Hex(), Limit: 10, Fields: []string{"name"}})
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: oid1}}}}, fake.filters[0])
	})

	t.Run("integer ids", func(t *testing.T) {
		fake := &fakeCollection{docs: []any{bson.D{{Key: "_id", Value: int64(12)}, {Key: "bio", Value: "x"}}}}
		c, err := tmongo.NewCollection(fake, tmongo.IDInt)
		require.NoError(t, err)

		recs, err := c.ListPage(context.Background(), reconcile.PageQuery{After: "11", Limit: 10, Fields: []string{"bio"}})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "12", recs[0].ID)
		assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: int64(11)}}}}, fake.filters[0])
	})

	t.Run("invalid cursor", func(t *testing.T) {
		c, err := tmongo.NewCollection(&fakeCollection{}, tmongo.IDObjectID)
		require.NoError(t, err)
		_, err = c.ListPage(context.Background(), reconcile.PageQuery{After: "zz", Limit: 1, Fields: []string{"name"}})
		assert.ErrorIs(t, err, tmongo.ErrInvalidCursor)
	})

	t.Run("find error", func(t *testing.T) {
		c, err := tmongo.NewCollection(&fakeCollection{findErr: errors.New("boom")}, "")
		require.NoError(t, err)
		_, err = c.ListPage(context.Background(), reconcile.PageQuery{Limit: 1, Fields: []string{"name"}})
		assert.ErrorIs(t, err, tmongo.ErrListFailed)
	})
}

func TestCollectionUpdateByID(t *testing.T) {
	oid := bson.NewObjectID()

	t.Run("normalised structured value keeps bson types", func(t *testing.T) {
		original := bson.A{
			bson.D{{Key: "day", Value: int32(1)}, {Key: "title", Value: "CafÃ©"}},
			bson.D{{Key: "at", Value: bson.DateTime(1700000000000)}, {Key: "count", Value: int64(5)}},
		}
		fake := &fakeCollection{
			docs:    []any{bson.D{{Key: "_id", Value: oid}, {Key: "itinerary", Value: original}}},
			matched: 1,
		}
		c, err := tmongo.NewCollection(fake, "")
		require.NoError(t, err)

		recs, err := c.ListPage(context.Background(), reconcile.PageQuery{Limit: 1, StructuredFields: []string{"itinerary"}})
		require.NoError(t, err)
		require.Len(t, recs, 1)

		fixed := textnorm.NormalizeValue(recs[0].Fields["itinerary"])
		require.NoError(t, c.UpdateByID(context.Background(), recs[0].ID, reconcile.Patch{
			Fields:     map[string]string{"name": "Café"},
			Structured: map[string]jsonvalue.Value{"itinerary": fixed},
		}))

		require.Len(t, fake.updates, 1)
		assert.Equal(t, bson.D{{Key: "_id", Value: oid}}, fake.updateIDs[0])

		update := fake.updates[0].(bson.D)
		require.Equal(t, "$set", update[0].Key)
		set := update[0].Value.(bson.D)
		require.Len(t, set, 2)
		assert.Equal(t, bson.E{Key: "name", Value: "Café"}, set[0])
		assert.Equal(t, "itinerary", set[1].Key)

		want := bson.A{
			bson.D{{Key: "day", Value: int32(1)}, {Key: "title", Value: "Café"}},
			bson.D{{Key: "at", Value: bson.DateTime(1700000000000)}, {Key: "count", Value: int64(5)}},
		}
		assert.Equal(t, extJSON(t, want), extJSON(t, set[1].Value))
	})

	t.Run("no matching document", func(t *testing.T) {
		c, err := tmongo.NewCollection(&fakeCollection{matched: 0}, "")
		require.NoError(t, err)
		err = c.UpdateByID(context.Background(), oid.Hex(), reconcile.Patch{Fields: map[string]string{"name": "x"}})
		assert.ErrorIs(t, err, tmongo.ErrDocumentNotFound)
	})

	t.Run("empty patch", func(t *testing.T) {
		fake := &fakeCollection{}
		c, err := tmongo.NewCollection(fake, "")
		require.NoError(t, err)
		require.NoError(t, c.UpdateByID(context.Background(), oid.Hex(), reconcile.Patch{}))
		assert.Empty(t, fake.updates)
	})

	t.Run("write error", func(t *testing.T) {
		c, err := tmongo.NewCollection(&fakeCollection{updateErr: errors.New("boom")}, tmongo.IDString)
		require.NoError(t, err)
		err = c.UpdateByID(context.Background(), "abc", reconcile.Patch{Fields: map[string]string{"name": "x"}})
		assert.ErrorIs(t, err, tmongo.ErrUpdateFailed)
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, tmongo.IsRetryableError(nil))
	assert.False(t, tmongo.IsRetryableError(context.Canceled))
	assert.False(t, tmongo.IsRetryableError(errors.New("boom")))
	assert.True(t, tmongo.IsRetryableError(context.DeadlineExceeded))
}
