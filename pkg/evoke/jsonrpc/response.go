// Package jsonrpc provides the JSON-RPC 2.0 response value object used at
// the application boundary. It is a plain data-transfer type with no
// relationship to the dispatch core: its only contracts are IsError and
// the wire encoding.
package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Version is the protocol version stamped on every wire response.
const Version = "2.0"

// Well-known JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrMalformedResponse indicates raw bytes that are not a JSON-RPC
// response object.
var ErrMalformedResponse = errors.New("jsonrpc: malformed response")

// Error is the error member of a failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Response is a JSON-RPC 2.0 response: either a result or an error,
// never both.
type Response struct {
	ID     any
	Result any
	Err    *Error
}

// NewResult creates a successful response.
func NewResult(id, result any) *Response {
	return &Response{ID: id, Result: result}
}

// NewError creates a failed response.
func NewError(id any, code int, message string) *Response {
	return &Response{ID: id, Err: &Error{Code: code, Message: message}}
}

// IsError returns true if the response carries an error member.
func (r *Response) IsError() bool {
	return r.Err != nil
}

// Wire returns the JSON-RPC 2.0 wire encoding of the response.
func (r *Response) Wire() (string, error) {
	envelope := map[string]any{
		"jsonrpc": Version,
		"id":      r.ID,
	}
	if r.Err != nil {
		envelope["error"] = r.Err
	} else {
		envelope["result"] = r.Result
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}
	return string(data), nil
}

// ParseResponse decodes raw bytes into a Response. A response must be a
// JSON object carrying an id and exactly one of result or error.
func ParseResponse(raw []byte) (*Response, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrMalformedResponse
	}

	result := gjson.GetBytes(raw, "result")
	errMember := gjson.GetBytes(raw, "error")
	if result.Exists() == errMember.Exists() {
		return nil, fmt.Errorf("%w: need exactly one of result or error", ErrMalformedResponse)
	}

	resp := &Response{ID: gjson.GetBytes(raw, "id").Value()}
	if errMember.Exists() {
		if !errMember.IsObject() {
			return nil, fmt.Errorf("%w: error member is not an object", ErrMalformedResponse)
		}
		resp.Err = &Error{
			Code:    int(errMember.Get("code").Int()),
			Message: errMember.Get("message").String(),
			Data:    errMember.Get("data").Value(),
		}
		return resp, nil
	}

	resp.Result = result.Value()
	return resp, nil
}
