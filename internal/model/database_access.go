package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// wildcard is the stored form of AllDatabases.
const wildcard = "*"

// DatabaseAccess is either every database or an explicit allow-list.
// The zero value is an empty allow-list and grants nothing.
type DatabaseAccess struct {
	all   bool
	names map[string]struct{}
}

func AllDatabases() DatabaseAccess {
	return DatabaseAccess{all: true}
}

func ExplicitDatabases(names ...string) DatabaseAccess {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return DatabaseAccess{names: set}
}

func (a DatabaseAccess) IsAll() bool {
	return a.all
}

// Allows reports whether name is covered by the access value.
func (a DatabaseAccess) Allows(name string) bool {
	if a.all {
		return true
	}
	_, ok := a.names[name]
	return ok
}

// Names returns the explicit allow-list, sorted. It is nil for AllDatabases.
func (a DatabaseAccess) Names() []string {
	if a.all {
		return nil
	}
	out := make([]string, 0, len(a.names))
	for n := range a.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (a DatabaseAccess) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if a.all {
		return bson.MarshalValue(wildcard)
	}
	return bson.MarshalValue(a.Names())
}

// UnmarshalBSONValue accepts "*" or an array of names. Anything else,
// including null, decodes to an empty allow-list.
func (a *DatabaseAccess) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*a = fromString(rv.StringValue())
	case bsontype.Array:
		values, err := rv.Array().Values()
		if err != nil {
			return fmt.Errorf("decode database access: %w", err)
		}
		names := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.StringValueOK(); ok {
				names = append(names, s)
			}
		}
		*a = ExplicitDatabases(names...)
	default:
		*a = ExplicitDatabases()
	}
	return nil
}

func (a DatabaseAccess) MarshalJSON() ([]byte, error) {
	if a.all {
		return json.Marshal(wildcard)
	}
	return json.Marshal(a.Names())
}

func (a *DatabaseAccess) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = fromString(s)
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*a = ExplicitDatabases(names...)
		return nil
	}
	*a = ExplicitDatabases()
	return nil
}

func fromString(s string) DatabaseAccess {
	if s == wildcard {
		return AllDatabases()
	}
	return ExplicitDatabases(s)
}
