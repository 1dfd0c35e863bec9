/*
Package server implements a msgpack IPC loop over a search session.

Clients write msgpack-encoded requests to the server's input and read one
msgpack-encoded response per request from its output. Requests are handled
in order; a query request answers once its pass has ended.

A query request carries the text to match and an optional cap on the number
of results returned:

	{"id": "q1", "q": "rigid", "l": 20}

The response lists the ranked results with their match position:

	{"id": "q1", "r": [{"t": "Rigidbody", "p": "Physics/Rigidbody", "i": 0, "l": 5}], "c": 1, "lim": false, "st": "completed", "t": 212}

Other actions are selected with "a":

	{"id": "c1", "a": "clear"}
	{"id": "s1", "a": "status"}

Failures are reported as {"id": ..., "e": message, "c": code}.
*/
package server

// Actions understood by the server. An empty action means ActionQuery.
const (
	ActionQuery  = "query"
	ActionClear  = "clear"
	ActionStatus = "status"
)

// Error codes carried by ErrorResponse.
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)

// Request is one client message.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Query  string `msgpack:"q,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// Result is one matched item.
type Result struct {
	Text   string `msgpack:"t"`
	Path   string `msgpack:"p,omitempty"`
	Index  int    `msgpack:"i"`
	Length int    `msgpack:"l"`
}

// Response answers a query, clear or status request.
type Response struct {
	ID        string   `msgpack:"id"`
	Query     string   `msgpack:"q,omitempty"`
	Results   []Result `msgpack:"r"`
	Count     int      `msgpack:"c"`
	Limited   bool     `msgpack:"lim"`
	State     string   `msgpack:"st"`
	TimeTaken int64    `msgpack:"t"` // Pass duration in microseconds
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
