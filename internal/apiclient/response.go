package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/stockdesk/console/internal/errors"
)

// Response is a decoded server envelope.
type Response struct {
	StatusCode int
	Code       int
	Msg        string
	// Data is the "data" member of the envelope, if any.
	Data json.RawMessage
	// Fields holds every top-level envelope member, including code and msg.
	Fields map[string]json.RawMessage
	// Body is the full JSON body.
	Body json.RawMessage
	// Blob holds the raw body for binary downloads.
	Blob        []byte
	ContentType string
}

// Decode unmarshals the "data" member into dst. A missing member leaves dst untouched.
func (r *Response) Decode(dst any) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeDeserialization, "decode response data")
	}
	return nil
}

// DecodeField unmarshals the top-level member name into dst.
// It reports false when the member is absent.
func (r *Response) DecodeField(name string, dst any) (bool, error) {
	raw, ok := r.Fields[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.Wrapf(err, errors.ErrCodeDeserialization, "decode response field %q", name)
	}
	return true, nil
}

// Value decodes the full body into a generic value.
func (r *Response) Value() (any, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDeserialization, "decode response body")
	}
	return v, nil
}

func decodeEnvelope(body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	resp := &Response{Code: CodeSuccess, Body: trimmed}
	if len(trimmed) == 0 {
		return resp, nil
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDeserialization, "decode response envelope")
	}
	resp.Fields = fields

	if raw, ok := fields["code"]; ok {
		code, err := parseCode(raw)
		if err != nil {
			return nil, err
		}
		if code != 0 {
			resp.Code = code
		}
	}
	if raw, ok := fields["msg"]; ok {
		_ = json.Unmarshal(raw, &resp.Msg)
	}
	if raw, ok := fields["data"]; ok {
		resp.Data = raw
	}
	return resp, nil
}

// parseCode accepts numeric and quoted envelope codes.
func parseCode(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		i, err := strconv.Atoi(n.String())
		if err == nil {
			return i, nil
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
	}
	if string(raw) == "null" {
		return 0, nil
	}
	return 0, errors.Deserialization("response code is not a number")
}

func envelopeError(resp *Response) error {
	switch resp.Code {
	case CodeSuccess:
		return nil
	case CodeUnauthorized:
		msg := resp.Msg
		if msg == "" {
			msg = "login session expired"
		}
		e := errors.Unauthenticated(msg)
		e.Status = resp.Code
		return e
	default:
		msg := resp.Msg
		if msg == "" {
			msg = "request failed with code " + strconv.Itoa(resp.Code)
		}
		return errors.Remote(resp.Code, msg)
	}
}
