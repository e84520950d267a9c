package mongo

import (
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/textfix/pkg/jsonvalue"
)

// wrapKey holds a lone value while it passes through extended JSON, which
// only encodes documents.
const wrapKey = "v"

// fromRawValue converts a BSON value into a jsonvalue.Value through
// canonical extended JSON. Types JSON cannot express (ObjectId, dates,
// int64, decimals) become their {"$type": ...} wrappers, so toBSON can
// restore them exactly.
func fromRawValue(rv bson.RawValue) (jsonvalue.Value, error) {
	switch rv.Type {
	case bson.TypeNull:
		return jsonvalue.Null(), nil
	case bson.TypeString:
		return jsonvalue.String(rv.StringValue()), nil
	}
	data, err := bson.MarshalExtJSON(bson.D{{Key: wrapKey, Value: rv}}, true, false)
	if err != nil {
		return jsonvalue.Value{}, errors.Join(ErrConvertValue, err)
	}
	doc, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Value{}, errors.Join(ErrConvertValue, err)
	}
	v, ok := doc.Get(wrapKey)
	if !ok {
		return jsonvalue.Value{}, ErrConvertValue
	}
	return v, nil
}

// toBSON is the inverse of fromRawValue.
func toBSON(v jsonvalue.Value) (any, error) {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil, nil
	case jsonvalue.KindString:
		s, _ := v.Str()
		return s, nil
	}
	data := `{"` + wrapKey + `":` + v.String() + `}`
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(data), true, &doc); err != nil {
		return nil, errors.Join(ErrConvertValue, err)
	}
	if len(doc) != 1 {
		return nil, ErrConvertValue
	}
	return doc[0].Value, nil
}

// idString renders a document _id as a cursor.
func idString(rv bson.RawValue) (string, error) {
	if oid, ok := rv.ObjectIDOK(); ok {
		return oid.Hex(), nil
	}
	if s, ok := rv.StringValueOK(); ok && s != "" {
		return s, nil
	}
	if n, ok := rv.Int32OK(); ok {
		return strconv.FormatInt(int64(n), 10), nil
	}
	if n, ok := rv.Int64OK(); ok {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedID, rv.Type)
}
