package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command is one decoded control message. Constructed per message and
// consumed immediately by dispatch; never persisted.
type Command struct {
	Intent string
	Params map[string]Value
}

// Param returns the named parameter.
func (c Command) Param(name string) (Value, bool) {
	v, ok := c.Params[name]
	return v, ok
}

// Parse decodes data as a single JSON object with a non-empty string
// "intent" field and an optional "parameters" object.
func Parse(data []byte) (Command, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Command{}, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}

	rawIntent, ok := doc["intent"]
	if !ok {
		return Command{}, fmt.Errorf("%w: no intent field", ErrMissingIntent)
	}
	var intent string
	if err := json.Unmarshal(rawIntent, &intent); err != nil {
		return Command{}, fmt.Errorf("%w: intent is not a string", ErrMissingIntent)
	}
	if strings.TrimSpace(intent) == "" {
		return Command{}, fmt.Errorf("%w: intent is empty", ErrMissingIntent)
	}

	cmd := Command{Intent: intent, Params: make(map[string]Value)}

	rawParams, ok := doc["parameters"]
	if !ok {
		return cmd, nil
	}
	var params map[string]any
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return Command{}, fmt.Errorf("%w: parameters is not an object", ErrMalformedPayload)
	}
	for k, v := range params {
		cmd.Params[k] = valueFromAny(v)
	}
	return cmd, nil
}
