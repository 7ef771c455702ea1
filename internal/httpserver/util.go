package httpserver

import (
	"encoding/json"
	"io"
)

// decodeJSON decodes a JSON request body into the destination struct.
// The reader will be closed after decoding. Unknown fields are ignored,
// so older and newer clients can share the same endpoints.
func decodeJSON(r io.ReadCloser, dest any) error {
	defer r.Close()
	decoder := json.NewDecoder(r)
	return decoder.Decode(dest)
}
