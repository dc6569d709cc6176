package object

import (
	"encoding/json"
)

// ToJSON marshals an object to JSON bytes.
// Void becomes null, symbols become strings, lambdas become
// {"params": [...], "body": [...]}.
func ToJSON(o Object) ([]byte, error) {
	return json.Marshal(toRaw(o))
}

func toRaw(o Object) any {
	if o == nil {
		return nil
	}

	switch val := o.(type) {
	case Void:
		return nil

	case Bool:
		return val.Value

	case Integer:
		return val.Value

	case Symbol:
		return val.Name

	case List:
		return rawSlice(val.Items)

	case Lambda:
		params := val.Params
		if params == nil {
			params = []string{}
		}
		return &lambdaJSON{Params: params, Body: rawSlice(val.Body)}
	}

	return nil
}

func rawSlice(items []Object) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = toRaw(item)
	}
	return out
}

// lambdaJSON fixes key order in JSON output.
type lambdaJSON struct {
	Params []string `json:"params"`
	Body   []any    `json:"body"`
}
