package jsonx

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ParseJSON parses the JSON data into a map
func ParseJSON(jsonData []byte) (map[string]interface{}, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(jsonData, &event); err != nil {
		return nil, errors.WithMessage(err, "failed to parse JSON payload")
	}

	return event, nil
}

// EncodeJSON serializes a value to JSON.
func EncodeJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to marshal value to JSON")
	}

	return data, nil
}
