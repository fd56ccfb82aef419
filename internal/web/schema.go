package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// inboundSchema describes the only message clients send: a pick carrying a
// GeoJSON feature or null.
const inboundSchema = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"enum": ["pick"]},
    "object": {
      "oneOf": [
        {"type": "null"},
        {
          "type": "object",
          "required": ["type", "geometry"],
          "properties": {
            "type": {"const": "Feature"},
            "geometry": {"type": "object", "required": ["type"]}
          }
        }
      ]
    }
  }
}`

type validator struct {
	schema *gojsonschema.Schema
}

func newValidator() (*validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(inboundSchema))
	if err != nil {
		return nil, fmt.Errorf("compile inbound schema: %w", err)
	}
	return &validator{schema: s}, nil
}

// decode validates a raw client message and unmarshals it.
func (v *validator) decode(data []byte) (inbound, error) {
	var in inbound
	if !json.Valid(data) {
		return in, fmt.Errorf("invalid JSON message")
	}
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return in, fmt.Errorf("validate message: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return in, fmt.Errorf("invalid message: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("decode message: %w", err)
	}
	return in, nil
}
