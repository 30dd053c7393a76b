package core

import (
	"strconv"

	"tiled-ca/internal/rule"
)

// Parameter is one labelled value describing a running simulation. The
// viewer HUD lists them and the exporter logs them.
type Parameter struct {
	Key   string
	Label string
	Value string
}

// Describe summarizes an engine and the rule driving it.
func Describe(e Engine, r *rule.Table) []Parameter {
	params := []Parameter{
		{Key: "engine", Label: "Engine", Value: e.Name()},
		{Key: "size", Label: "Grid size", Value: strconv.Itoa(e.Size())},
		{Key: "states", Label: "States", Value: strconv.Itoa(int(e.States()))},
	}
	if r != nil {
		params = append(params,
			Parameter{Key: "horizon", Label: "Horizon", Value: strconv.Itoa(r.Horizon())},
			Parameter{Key: "rule_len", Label: "Rule entries", Value: strconv.Itoa(r.Len())},
		)
	}
	if t, ok := e.(interface{ Tiles() int }); ok {
		params = append(params, Parameter{Key: "tiles", Label: "Tiles per axis", Value: strconv.Itoa(t.Tiles())})
	}
	return params
}

// KeyValues flattens params into alternating keys and values for
// structured logging.
func KeyValues(params []Parameter) []any {
	kv := make([]any, 0, 2*len(params))
	for _, p := range params {
		kv = append(kv, p.Key, p.Value)
	}
	return kv
}
