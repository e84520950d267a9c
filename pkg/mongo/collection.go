package mongo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
	"github.com/dmitrymomot/textfix/pkg/reconcile"
)

// IDType is the BSON type of a collection's _id values.
type IDType string

const (
	IDObjectID IDType = "objectid"
	IDString   IDType = "string"
	IDInt      IDType = "int"
)

const idField = "_id"

// CollectionAPI is the subset of *mongo.Collection used by Collection.
type CollectionAPI interface {
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

// Collection implements reconcile.Store over one MongoDB collection.
// Documents are visited in ascending _id order.
type Collection struct {
	coll   CollectionAPI
	idType IDType
}

var _ reconcile.Store = (*Collection)(nil)

// NewCollection binds coll, usually db.Collection(name). An empty idType
// means ObjectId keys.
func NewCollection(coll CollectionAPI, idType IDType) (*Collection, error) {
	if coll == nil {
		return nil, errors.Join(ErrInvalidCollection, errors.New("collection is required"))
	}
	switch idType {
	case "":
		idType = IDObjectID
	case IDObjectID, IDString, IDInt:
	default:
		return nil, errors.Join(ErrInvalidCollection, fmt.Errorf("unsupported id type %q", idType))
	}
	return &Collection{coll: coll, idType: idType}, nil
}

// ListPage returns up to q.Limit documents with an _id greater than q.After.
func (c *Collection) ListPage(ctx context.Context, q reconcile.PageQuery) ([]reconcile.Record, error) {
	filter, err := c.pageFilter(q)
	if err != nil {
		return nil, err
	}
	projection := bson.D{{Key: idField, Value: 1}}
	for _, f := range q.Columns() {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	opts := options.Find().
		SetSort(bson.D{{Key: idField, Value: 1}}).
		SetProjection(projection)
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap(ErrListFailed, err)
	}
	defer cur.Close(ctx)

	var records []reconcile.Record
	for cur.Next(ctx) {
		rec, err := toRecord(cur.Current, q)
		if err != nil {
			return nil, errors.Join(ErrListFailed, err)
		}
		records = append(records, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, wrap(ErrListFailed, err)
	}
	return records, nil
}

// UpdateByID applies the patch with a single $set.
func (c *Collection) UpdateByID(ctx context.Context, id string, patch reconcile.Patch) error {
	if patch.Len() == 0 {
		return nil
	}
	key, err := c.bindID(id)
	if err != nil {
		return err
	}

	set := make(bson.D, 0, patch.Len())
	for _, f := range slices.Sorted(maps.Keys(patch.Fields)) {
		set = append(set, bson.E{Key: f, Value: patch.Fields[f]})
	}
	for _, f := range slices.Sorted(maps.Keys(patch.Structured)) {
		v, err := toBSON(patch.Structured[f])
		if err != nil {
			return errors.Join(ErrUpdateFailed, fmt.Errorf("%s: %w", f, err))
		}
		set = append(set, bson.E{Key: f, Value: v})
	}

	res, err := c.coll.UpdateOne(ctx, bson.D{{Key: idField, Value: key}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return wrap(ErrUpdateFailed, err)
	}
	if res.MatchedCount == 0 {
		return errors.Join(ErrUpdateFailed, ErrDocumentNotFound, errors.New(id))
	}
	return nil
}

func (c *Collection) pageFilter(q reconcile.PageQuery) (bson.D, error) {
	filter := make(bson.D, 0, len(q.Filter)+1)
	// {field: null} matches both null and missing fields.
	for _, k := range slices.Sorted(maps.Keys(q.Filter)) {
		filter = append(filter, bson.E{Key: k, Value: q.Filter[k]})
	}
	if q.After != "" {
		after, err := c.bindID(q.After)
		if err != nil {
			return nil, err
		}
		filter = append(filter, bson.E{Key: idField, Value: bson.D{{Key: "$gt", Value: after}}})
	}
	return filter, nil
}

func (c *Collection) bindID(id string) (any, error) {
	switch c.idType {
	case IDObjectID:
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, errors.Join(ErrInvalidCursor, err)
		}
		return oid, nil
	case IDInt:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, errors.Join(ErrInvalidCursor, err)
		}
		return n, nil
	default:
		return id, nil
	}
}

func toRecord(doc bson.Raw, q reconcile.PageQuery) (reconcile.Record, error) {
	rawID, err := doc.LookupErr(idField)
	if err != nil {
		return reconcile.Record{}, fmt.Errorf("document without _id: %w", err)
	}
	id, err := idString(rawID)
	if err != nil {
		return reconcile.Record{}, err
	}

	rec := reconcile.Record{ID: id, Fields: make(map[string]jsonvalue.Value, len(q.Fields)+len(q.StructuredFields))}
	for _, f := range q.Columns() {
		rv, err := doc.LookupErr(f)
		if err != nil {
			rec.Fields[f] = jsonvalue.Null()
			continue
		}
		v, err := fromRawValue(rv)
		if err != nil {
			return reconcile.Record{}, fmt.Errorf("%s.%s: %w", id, f, err)
		}
		rec.Fields[f] = v
	}
	return rec, nil
}
