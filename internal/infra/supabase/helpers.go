package supabase

import "encoding/json"

// decodeRows unmarshals a PostgREST array response. A nil body decodes to an
// empty slice.
func decodeRows[T any](body []byte, out *[]T) error {
	if body == nil || string(body) == "[]" {
		*out = nil
		return nil
	}
	return json.Unmarshal(body, out)
}
