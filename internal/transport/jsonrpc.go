package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	// ErrApplication carries a domain error; Data holds its code.
	ErrApplication = -32000
)

var (
	// ErrUnknownMethod is returned by handlers for unsupported methods.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrMalformedParams is returned by handlers when params fail to decode.
	ErrMalformedParams = errors.New("malformed params")
	errParse           = errors.New("parse error")
)

// CodedError is an error carrying an application error code.
type CodedError interface {
	error
	CodeValue() string
	MessageValue() string
}

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest parses and validates a JSON-RPC request payload.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", errParse, err)
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return Request{}, fmt.Errorf("invalid request")
	}
	return req, nil
}

// WriteResult writes a JSON-RPC success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, http.StatusOK, Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	})
}

// WriteError writes a JSON-RPC error response.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		JSONRPC: "2.0",
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	})
}

// WriteHandlerError translates a handler error into a JSON-RPC error.
func WriteHandlerError(w http.ResponseWriter, id any, err error) {
	var coded CodedError
	switch {
	case errors.As(err, &coded):
		WriteError(w, id, ErrApplication, coded.MessageValue(), coded)
	case errors.Is(err, ErrUnknownMethod):
		WriteError(w, id, ErrMethodNotFound, err.Error(), nil)
	case errors.Is(err, ErrMalformedParams):
		WriteError(w, id, ErrInvalidParams, err.Error(), nil)
	default:
		WriteError(w, id, ErrInternal, "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
