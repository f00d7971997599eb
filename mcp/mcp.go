// Package mcp implements a Model Context Protocol server over stdio. It
// lets MCP clients (agent IDEs, assistants) call the chunking engine as a
// set of tools and read the strategy notes as resources.
//
// The protocol follows the MCP specification (revision 2025-03-26).
// Transport is newline-delimited JSON-RPC 2.0 over stdin/stdout.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Tool is a callable the server exposes via tools/list and tools/call.
type Tool struct {
	// Definition describes the tool (name, description, input schema).
	Definition ToolDefinition
	// Handler runs when a client invokes tools/call for this tool.
	Handler func(ctx context.Context, args json.RawMessage) Result
}

// Resource is a readable document exposed via resources/list and
// resources/read.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	// Read returns the resource content. Called on each resources/read.
	Read func() string
}

// Server speaks MCP over newline-delimited JSON-RPC. Register tools and
// resources before calling Serve; registration is not safe once the server
// is running.
type Server struct {
	name    string
	version string

	tools     map[string]Tool
	toolOrder []string
	resources map[string]Resource
	resOrder  []string

	logger *slog.Logger

	// reader/writer can be overridden for testing (defaults: stdin/stdout).
	reader io.Reader
	writer io.Writer
	mu     sync.Mutex // protects writes
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for transport-level problems. Nil (the
// default) discards all output. Log output must never go to stdout, which
// carries the protocol stream.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an MCP server with the given name and version.
func New(name, version string, opts ...Option) *Server {
	s := &Server{
		name:      name,
		version:   version,
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		logger:    slog.New(slog.DiscardHandler),
		reader:    os.Stdin,
		writer:    os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddTool registers a tool. A second tool with the same name replaces the
// first but keeps its position in tools/list.
func (s *Server) AddTool(t Tool) {
	if _, ok := s.tools[t.Definition.Name]; !ok {
		s.toolOrder = append(s.toolOrder, t.Definition.Name)
	}
	s.tools[t.Definition.Name] = t
}

// AddResource registers a resource, replacing any earlier one with the
// same URI.
func (s *Server) AddResource(r Resource) {
	if _, ok := s.resources[r.URI]; !ok {
		s.resOrder = append(s.resOrder, r.URI)
	}
	s.resources[r.URI] = r
}

// Serve reads JSON-RPC messages line by line and writes responses. It
// blocks until the input stream closes or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 10<<20), 10<<20) // 10MB max message

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.handleMessage(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mcp: read input: %w", err)
	}
	return nil
}

func (s *Server) write(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		s.logger.Error("write response", "error", err)
	}
}
