package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"verigate/internal/verification/resilience"
)

// CodeEnvelope is the {responseCode, responseMessage, data, errors} wrapper
// used by session-based councils.
type CodeEnvelope struct {
	ResponseCode    string          `json:"responseCode"`
	ResponseMessage string          `json:"responseMessage"`
	Data            json.RawMessage `json:"data"`
	Errors          []string        `json:"errors"`
}

// UnwrapCodeEnvelope returns the data member of a code envelope. An empty
// body yields nil data and no error. A non-"200" code is a ProviderError.
func UnwrapCodeEnvelope(providerID string, resp *resilience.Response) (json.RawMessage, error) {
	if resp.Empty() {
		return nil, nil
	}
	var env CodeEnvelope
	if err := resp.DecodeJSON(&env); err != nil {
		return nil, &NormalizationError{ProviderID: providerID, Reason: "malformed response envelope", Err: err}
	}
	if env.ResponseCode != "" && env.ResponseCode != "200" {
		msg := env.ResponseMessage
		if msg == "" && len(env.Errors) > 0 {
			msg = strings.Join(env.Errors, "; ")
		}
		category := CategoryUnavailable
		if env.ResponseCode == "404" {
			category = CategoryNotFound
		}
		return nil, NewProviderError(providerID, category, "response code "+env.ResponseCode+": "+msg, nil)
	}
	return env.Data, nil
}

// StatusEnvelope is the {status|success, data, error, message} wrapper used
// by state boards.
type StatusEnvelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e StatusEnvelope) ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return e.Status == "" || e.Status == "success"
}

// UnwrapStatusEnvelope returns the data member of a status envelope.
func UnwrapStatusEnvelope(providerID string, resp *resilience.Response) (json.RawMessage, error) {
	if resp.Empty() {
		return nil, nil
	}
	var env StatusEnvelope
	if err := resp.DecodeJSON(&env); err != nil {
		return nil, &NormalizationError{ProviderID: providerID, Reason: "malformed response envelope", Err: err}
	}
	if !env.ok() {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "request was not successful"
		}
		category := CategoryUnavailable
		if strings.Contains(strings.ToLower(msg), "not found") {
			category = CategoryNotFound
		}
		return nil, NewProviderError(providerID, category, msg, nil)
	}
	return env.Data, nil
}

// EmptyPayload reports whether raw carries no content.
func EmptyPayload(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

// DecodePayload unmarshals raw into v. Syntax errors are a
// NormalizationError. A field of unexpected type is skipped and reported as a
// warning so the rest of the record can still be mapped.
func DecodePayload(providerID string, raw []byte, v any) ([]string, error) {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil, nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("field %q had unexpected type %s and was ignored", typeErr.Field, typeErr.Value)}, nil
	}
	return nil, &NormalizationError{ProviderID: providerID, Reason: "unexpected payload shape", Err: err}
}
