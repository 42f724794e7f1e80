package controllers

import (
	"fmt"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Miles to meters, the unit $maxDistance wants.
const metersPerMile = 1609

var (
	conditionFlags = []string{"new", "great", "decent", "wrecked"}
	boardTypeFlags = []string{"shortboard", "funboard", "longboard", "sup"}
)

// InvalidParameterError reports a query parameter whose value could not be
// parsed as a number.
type InvalidParameterError struct {
	Param string
	Value string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid value %q for query parameter %q", e.Value, e.Param)
}

// BuildBoardFilter translates the flat query string of GET /api/boards into a
// Mongo filter document. Recognized parameters:
//
//	_id                          exact match
//	state                        exact match
//	price-min / price-max        exclusive price bounds
//	lat, lng, radius             proximity search, radius in miles; all three
//	                             must be present or the group is ignored
//	new, great, decent, wrecked  board-condition membership, value must be "true"
//	shortboard, funboard,
//	longboard, sup               board-type membership, value must be "true"
//
// Anything else is ignored, so clients can send extra fields freely. All
// constraints AND together; the two membership groups OR within themselves.
// Returns an InvalidParameterError when a numeric parameter fails to parse.
func BuildBoardFilter(params url.Values) (bson.M, error) {
	filter := bson.M{}

	if v := params.Get("_id"); v != "" {
		if objID, err := primitive.ObjectIDFromHex(v); err == nil {
			filter["_id"] = objID
		} else {
			// Not hex, so it matches nothing, same as querying any other
			// nonexistent id.
			filter["_id"] = v
		}
	}

	if v := params.Get("state"); v != "" {
		filter["state"] = v
	}

	price := bson.M{}
	if v := params.Get("price-min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &InvalidParameterError{Param: "price-min", Value: v}
		}
		price["$gt"] = min
	}
	if v := params.Get("price-max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &InvalidParameterError{Param: "price-max", Value: v}
		}
		price["$lt"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	// Every geo parameter that shows up must be numeric, but the constraint
	// only activates when the full triple is present. A lone lat or a
	// lat+lng pair is ignored rather than turned into a malformed query.
	geo := make(map[string]float64, 3)
	for _, name := range []string{"lat", "lng", "radius"} {
		v := params.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &InvalidParameterError{Param: name, Value: v}
		}
		geo[name] = f
	}
	if len(geo) == 3 {
		filter["location"] = bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{geo["lng"], geo["lat"]},
				},
				"$maxDistance": geo["radius"] * metersPerMile,
			},
		}
	}

	if conditions := activeFlags(params, conditionFlags); len(conditions) > 0 {
		filter["board-condition"] = bson.M{"$in": conditions}
	}
	if boardTypes := activeFlags(params, boardTypeFlags); len(boardTypes) > 0 {
		filter["board-type"] = bson.M{"$in": boardTypes}
	}

	return filter, nil
}

// activeFlags walks the fixed flag enumeration and keeps the ones the client
// set to the literal "true". Iterating the enumeration instead of the query
// keeps the result independent of parameter order.
func activeFlags(params url.Values, flags []string) []string {
	var active []string
	for _, name := range flags {
		if params.Get(name) == "true" {
			active = append(active, name)
		}
	}
	return active
}
