package usgs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
)

// DecodePayload validates a catalog response body and decodes its features.
// Checks run in order: non-blank body, well-formed JSON, top-level object
// with a "features" array.
func DecodePayload(body []byte) (domain.RawCatalogPayload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.RawCatalogPayload{}, fail(domain.FailureEmptyResponse, errors.New("empty response received from API"))
	}
	if !json.Valid(body) {
		return domain.RawCatalogPayload{}, fail(domain.FailureMalformedBody, errors.New("response body is not valid JSON"))
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil || top == nil {
		return domain.RawCatalogPayload{}, fail(domain.FailureUnexpectedStructure, errors.New("response is not a JSON object"))
	}

	raw, ok := top["features"]
	if !ok {
		return domain.RawCatalogPayload{}, fail(domain.FailureUnexpectedStructure, errors.New(`response has no "features" key`))
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return domain.RawCatalogPayload{}, fail(domain.FailureUnexpectedStructure, errors.New(`"features" is not an array`))
	}

	features := []domain.Feature{}
	if err := json.Unmarshal(raw, &features); err != nil {
		return domain.RawCatalogPayload{}, fail(domain.FailureUnexpectedStructure, fmt.Errorf("decode features: %w", err))
	}
	return domain.RawCatalogPayload{Features: features}, nil
}
