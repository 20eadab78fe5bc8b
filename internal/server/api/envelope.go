// Package api implements the order service's request dispatcher: an
// HTTP-shaped state machine over (resource pattern, method) producing a
// uniform response envelope. Authentication and routing guarantees are the
// upstream gateway's job; the dispatcher only assumes method and resource
// dispatch already happened.
package api

import "encoding/json"

// Resource patterns the dispatcher routes on.
const (
	ResourceOrders        = "/orders"
	ResourceOrder         = "/order"
	ResourceOrderByID     = "/order/{orderId}"
	ResourcePresignedPost = "/order/{orderId}/presignedPost"
	ResourceOrderBlob     = "/order/{orderId}/blob"
)

// Request is the gateway-delivered event: resolved resource pattern, HTTP
// method, path/query parameters and the raw body. Body carries base64 when
// the transport required text framing for binary content.
type Request struct {
	Resource              string
	Method                string
	PathParameters        map[string]string
	QueryStringParameters map[string]string
	Body                  string
	IsBase64Encoded       bool
}

// Response is the uniform envelope handed back to the gateway.
type Response struct {
	StatusCode      int
	Headers         map[string]string
	Body            string
	IsBase64Encoded bool
}

type errorBody struct {
	Error string `json:"error"`
}

// Client-visible error messages. Internal failures are logged in full
// server-side and never leak their text into these.
const (
	msgInvalidParameters = "invalid parameters"
	msgOrderNotFound     = "order not found"
	msgServerError       = "server backend error"
	msgInvalidRequest    = "invalid API request"
)

func jsonResponse(status int, headers map[string]string, v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: status, Headers: headers, Body: string(b)}, nil
}

func errorResponse(status int, headers map[string]string, msg string) *Response {
	b, _ := json.Marshal(errorBody{Error: msg})
	return &Response{StatusCode: status, Headers: headers, Body: string(b)}
}
