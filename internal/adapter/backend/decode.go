package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList accepts a bare JSON array or an object wrapping it under "data".
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Data) == 0 {
		return nil, fmt.Errorf("list response has neither an array nor a data field")
	}
	return decodeList[T](wrapped.Data)
}

// decodeObject decodes an object, unwrapping a top-level "data" object when present.
func decodeObject(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if data, ok := wrapped["data"]; ok {
			data = bytes.TrimSpace(data)
			if len(data) > 0 && data[0] == '{' {
				body = data
			}
		}
	}

	return json.Unmarshal(body, out)
}

// errorMessage pulls "message" or "error" out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{payload.Message, payload.Error} {
		if len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return list[0]
		}
	}
	return ""
}
