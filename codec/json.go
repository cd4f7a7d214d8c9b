package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is kept for portability: records written with it can be inspected and
// decoded by any tool. GoJSON produces byte-compatible output faster.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for manifests and newly archived records.
var Default Codec = GoJSON{}
