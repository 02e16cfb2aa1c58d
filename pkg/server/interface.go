/*
Package server drives autocomplete sessions over msgpack IPC.

Clients write a stream of msgpack encoded Request values to stdin and read a
stream of responses from stdout. Messages are written back to back with no
framing; every response carries an "event" field that names its type.

# Sessions

A session is one autocomplete widget. It is opened with

	{"id": "1", "op": "open", "session": "search", "config": {"multi_select": true}}

and then driven with input, resolve, next, prev, select, select_current
and key ops:

	{"id": "2", "op": "input", "session": "search", "text": "unit"}
	{"id": "3", "op": "key", "session": "search", "key": "ArrowDown"}
	{"id": "4", "op": "select", "session": "search", "index": 0}

Every op is answered with the session state:

	{"id": "2", "event": "state", "session": "search", "text": "unit",
	 "candidates": [], "highlighted": -1, "selected": [], "pending": 1}

Resolutions run in the background. When one lands the server pushes the new
state with event "update" and no id. A selection pushes event "select"
carrying the whole selection before the op's own reply.

# Errors

Invalid requests are answered with

	{"id": "4", "event": "error", "e": "candidate index 7 out of range", "c": 400}

Codes are 400 for malformed requests, 404 for unknown sessions and 500 for
resolver failures, which arrive without an id.
*/
package server

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Ops understood by the server.
const (
	OpHealth        = "health"
	OpOpen          = "open"
	OpInput         = "input"
	OpResolve       = "resolve"
	OpNext          = "next"
	OpPrev          = "prev"
	OpSelect        = "select"
	OpSelectCurrent = "select_current"
	OpKey           = "key"
	OpState         = "state"
	OpClose         = "close"
)

// Events written by the server.
const (
	EventReady  = "ready"
	EventHealth = "health"
	EventState  = "state"
	EventUpdate = "update"
	EventSelect = "select"
	EventError  = "error"
)

// Request is a single client message.
type Request struct {
	ID      string         `msgpack:"id"`
	Op      string         `msgpack:"op"`
	Session string         `msgpack:"session,omitempty"`
	Text    string         `msgpack:"text,omitempty"`
	Index   *int           `msgpack:"index,omitempty"`
	Key     string         `msgpack:"key,omitempty"`
	Config  *SessionConfig `msgpack:"config,omitempty"`
}

// SessionConfig overrides the server defaults for one session.
type SessionConfig struct {
	AutoResolve      *bool `msgpack:"auto_resolve,omitempty"`
	MultiSelect      *bool `msgpack:"multi_select,omitempty"`
	ShowSelected     *bool `msgpack:"show_selected,omitempty"`
	MinTriggerLength *int  `msgpack:"min_trigger_length,omitempty"`
}

// Candidate is a ranked candidate; rank 1 is the best.
type Candidate struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// StateResponse is a snapshot of a session.
type StateResponse struct {
	ID           string      `msgpack:"id,omitempty"`
	Event        string      `msgpack:"event"`
	Session      string      `msgpack:"session"`
	Text         string      `msgpack:"text"`
	Candidates   []Candidate `msgpack:"candidates"`
	Highlighted  int         `msgpack:"highlighted"`
	Selected     []string    `msgpack:"selected"`
	Pending      int         `msgpack:"pending"`
	ShowSelected bool        `msgpack:"show_selected"`
}

// HealthResponse answers health checks and announces readiness.
type HealthResponse struct {
	ID       string `msgpack:"id,omitempty"`
	Event    string `msgpack:"event"`
	Status   string `msgpack:"status"`
	Sessions int    `msgpack:"sessions"`
}

// ErrorResponse reports a failed request or resolution.
type ErrorResponse struct {
	ID      string `msgpack:"id,omitempty"`
	Event   string `msgpack:"event"`
	Session string `msgpack:"session,omitempty"`
	Error   string `msgpack:"e"`
	Code    int    `msgpack:"c"`
}

// DecodeResponse reads the next server message from dec and returns it as a
// StateResponse, HealthResponse or ErrorResponse value.
func DecodeResponse(dec *msgpack.Decoder) (any, error) {
	raw, err := dec.DecodeRaw()
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Event string `msgpack:"event"`
	}
	if err := msgpack.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	switch envelope.Event {
	case EventError:
		var resp ErrorResponse
		err = msgpack.Unmarshal(raw, &resp)
		return resp, err
	case EventReady, EventHealth:
		var resp HealthResponse
		err = msgpack.Unmarshal(raw, &resp)
		return resp, err
	default:
		var resp StateResponse
		err = msgpack.Unmarshal(raw, &resp)
		return resp, err
	}
}
