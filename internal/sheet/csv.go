package sheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Columns is the union of top-level keys in first-seen order, with _id
// moved to the front when any document has one.
func Columns(docs []bson.D) []string {
	var cols []string
	seen := map[string]bool{}
	hasID := false
	for _, d := range docs {
		for _, e := range d {
			if e.Key == "_id" {
				hasID = true
				continue
			}
			if !seen[e.Key] {
				seen[e.Key] = true
				cols = append(cols, e.Key)
			}
		}
	}
	if hasID {
		cols = append([]string{"_id"}, cols...)
	}
	return cols
}

// WriteCSV writes docs as CSV with a header row from Columns.
func WriteCSV(w io.Writer, docs []bson.D) error {
	cols := Columns(docs)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for _, d := range docs {
		values := make(map[string]any, len(d))
		for _, e := range d {
			values[e.Key] = e.Value
		}
		for i, c := range cols {
			v, ok := values[c]
			if !ok {
				record[i] = ""
				continue
			}
			s, err := Cell(v)
			if err != nil {
				return fmt.Errorf("render %s: %w", c, err)
			}
			record[i] = s
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Cell renders one value for CSV output.
func Cell(v any) (string, error) {
	switch x := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return "", nil
	case string:
		return x, nil
	case primitive.ObjectID:
		return x.Hex(), nil
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339), nil
	case time.Time:
		return x.UTC().Format(time.RFC3339), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case primitive.Decimal128:
		return x.String(), nil
	}
	return extJSON(v)
}

// extJSON renders a nested value as relaxed Extended JSON. The driver only
// marshals documents, so the value is wrapped and unwrapped.
func extJSON(v any) (string, error) {
	out, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return "", err
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(out, &wrapped); err != nil {
		return "", err
	}
	return string(wrapped["v"]), nil
}
