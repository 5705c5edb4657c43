package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalLenient decodes content as JSON into T. If strict decoding fails the
// content is run through jsonrepair (unquoted keys, single quotes, trailing
// commas, truncated objects) and decoding is retried once.
//
// Example:
//
//	type Person struct {
//	    Name string `json:"name"`
//	}
//
//	// Strict JSON decodes directly
//	person, err := UnmarshalLenient[Person]([]byte(`{"name":"John"}`))
//
//	// Broken JSON is repaired first
//	person, err := UnmarshalLenient[Person]([]byte(`{name: 'John',}`))
func UnmarshalLenient[T any](content []byte) (T, error) {
	var result T

	err := json.Unmarshal(content, &result)
	if err == nil {
		return result, nil
	}

	repairedJSON, repairErr := jsonrepair.JSONRepair(string(content))
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}

	var repaired T
	if err = json.Unmarshal([]byte(repairedJSON), &repaired); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (repaired: %s)", result, err, TruncateStringDefault(repairedJSON))
	}
	return repaired, nil
}
