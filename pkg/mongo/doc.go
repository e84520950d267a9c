// Package mongo connects textfix to MongoDB and adapts collections to the
// reconcile.Store contract.
//
// New and NewWithDatabase open a client from Config (MONGODB_* environment
// variables) with exponential backoff. Collection wraps a *mongo.Collection:
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	tours, err := mongo.NewCollection(db.Collection("tours"), mongo.IDObjectID)
//
// Documents are paged by _id ($gt cursor, ascending sort) and only the
// requested fields are projected. Structured fields pass through canonical
// extended JSON on their way to and from jsonvalue.Value, so BSON types
// JSON cannot represent (ObjectId, dates, int64) survive normalisation.
//
// Network errors and timeouts are wrapped with retry.RetryableError.
package mongo
