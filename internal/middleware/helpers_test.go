package middleware

import (
	"encoding/json"
	"io"
	"net/http"
)

func decodeJSON(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}
