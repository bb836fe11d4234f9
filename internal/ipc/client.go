package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/taskwm/internal/runtimepath"
	"github.com/1broseidon/taskwm/internal/wm"
)

const requestTimeout = 5 * time.Second

// Client talks to a running taskwm over the control socket.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// GetStatus fetches the current task/workspace snapshot.
func (c *Client) GetStatus() (wm.Status, error) {
	var status wm.Status
	resp, err := c.send(&Request{Command: CommandGetStatus})
	if err != nil {
		return status, err
	}
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return status, fmt.Errorf("failed to parse status: %w", err)
	}
	return status, nil
}

// ListTasks fetches the live task list in creation order.
func (c *Client) ListTasks() ([]wm.TaskStatus, error) {
	resp, err := c.send(&Request{Command: CommandListTasks})
	if err != nil {
		return nil, err
	}
	var data TasksData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse task list: %w", err)
	}
	return data.Tasks, nil
}

// SwitchTask asks the window manager to switch to (or create) a task.
func (c *Client) SwitchTask(name string) error {
	payload, err := json.Marshal(SwitchTaskPayload{Name: name})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, err = c.send(&Request{Command: CommandSwitchTask, Payload: payload})
	return err
}

func (c *Client) send(req *Request) (*Response, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("unix", socketPath, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("taskwm is not running (cannot reach %s): %w", socketPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return &resp, nil
}
