// Package envelope builds the uniform JSON response returned by every product action.
package envelope

import "time"

// Code is an application-level result code. It travels inside the envelope
// and is independent from the HTTP status, which is always 200.
type Code int

const (
	CodeOK               Code = 200
	CodeUnknownAction    Code = 3001
	CodeMethodNotAllowed Code = 3002
	CodeMalformedJSON    Code = 3003
	CodeRegisterFailed   Code = 5001
	CodeGetFailed        Code = 5002
	CodeEditFailed       Code = 5003
)

var messages = map[Code]string{
	CodeOK:               "success",
	CodeUnknownAction:    "unknown action",
	CodeMethodNotAllowed: "method must be POST",
	CodeMalformedJSON:    "request body is not valid JSON",
	CodeRegisterFailed:   "product registration failed",
	CodeGetFailed:        "product lookup failed",
	CodeEditFailed:       "product edit failed",
}

// Message returns the human readable text for c.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown result code"
}

// CurDateLayout renders the envelope's curdate field.
const CurDateLayout = "2006/01/02 15:04:05"

// Envelope wraps an action's result.
type Envelope struct {
	ResultCode    Code   `json:"resultCode"`
	ResultMessage string `json:"resultMessage"`
	Data          []any  `json:"data"`
	Size          int    `json:"size"`
	// Action named by the request. Non-string values are echoed as their JSON text.
	Action        string `json:"action"`
	CurDate       string `json:"curdate"`
	ErrorKind     string `json:"errorKind,omitempty"`
}

// NewAt builds an envelope stamped with now. A nil data list is sent as [].
func NewAt(now time.Time, code Code, data []any, action string) Envelope {
	if data == nil {
		data = []any{}
	}
	return Envelope{
		ResultCode:    code,
		ResultMessage: code.Message(),
		Data:          data,
		Size:          len(data),
		Action:        action,
		CurDate:       now.Format(CurDateLayout),
	}
}

// WithErrorKind returns a copy of e tagged with kind.
func (e Envelope) WithErrorKind(kind string) Envelope {
	e.ErrorKind = kind
	return e
}
