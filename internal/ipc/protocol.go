package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/taskwm/internal/wm"
)

// CommandType represents the control socket command types.
type CommandType string

const (
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandListTasks  CommandType = "LIST_TASKS"
	CommandSwitchTask CommandType = "SWITCH_TASK"
)

// Request represents a request from client to server.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents a response from server to client.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SwitchTaskPayload is the payload for SWITCH_TASK.
type SwitchTaskPayload struct {
	Name string `json:"name"`
}

// TasksData is the data returned by LIST_TASKS.
type TasksData struct {
	Tasks []wm.TaskStatus `json:"tasks"`
}

// ParseRequest decodes a request line.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("missing command")
	}
	return &req, nil
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// Marshal encodes the response as a single line.
func (r *Response) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return append(data, '\n'), nil
}
