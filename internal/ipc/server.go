package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/taskwm/internal/runtimepath"
	"github.com/1broseidon/taskwm/internal/wm"
)

// snapshotTimeout bounds how long a control request waits for the event loop.
const snapshotTimeout = 2 * time.Second

// Server answers control requests over a unix socket. It holds no window
// manager state: commands and snapshot requests are sent into the
// dispatcher's event channel, keeping all state on the event loop goroutine.
type Server struct {
	socketPath   string
	listener     net.Listener
	events       chan<- wm.Event
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a control server feeding the given event channel.
func NewServer(events chan<- wm.Event) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve control socket path: %w", err)
	}

	// Remove a stale socket from a previous run.
	os.Remove(socketPath)

	return &Server{socketPath: socketPath, events: events}, nil
}

// Start begins listening for control connections.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create control socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("control socket listening on %s", s.socketPath)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			quitting := s.shuttingDown
			s.shutdownMu.Unlock()
			if quitting {
				return
			}
			log.Printf("control socket accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("control socket read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("invalid request: %v", err)))
		return
	}

	s.send(conn, s.handleCommand(req))
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		status, err := s.snapshot()
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return mustOK(status)

	case CommandListTasks:
		status, err := s.snapshot()
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return mustOK(TasksData{Tasks: status.Tasks})

	case CommandSwitchTask:
		var payload SwitchTaskPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid payload: %v", err))
		}
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			return NewErrorResponse("task name must not be empty")
		}
		select {
		case s.events <- wm.SwitchTaskRequest{Name: name}:
			return mustOK(nil)
		case <-time.After(snapshotTimeout):
			return NewErrorResponse("window manager is not responding")
		}

	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) snapshot() (wm.Status, error) {
	reply := make(chan wm.Status, 1)
	select {
	case s.events <- wm.StatusRequest{Reply: reply}:
	case <-time.After(snapshotTimeout):
		return wm.Status{}, fmt.Errorf("window manager is not responding")
	}
	select {
	case status := <-reply:
		return status, nil
	case <-time.After(snapshotTimeout):
		return wm.Status{}, fmt.Errorf("window manager is not responding")
	}
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.Printf("control socket marshal error: %v", err)
		return
	}
	if _, err := conn.Write(data); err != nil {
		log.Printf("control socket write error: %v", err)
	}
}

func mustOK(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
