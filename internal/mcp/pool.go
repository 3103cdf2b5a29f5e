// Package mcp maintains pooled client sessions to MCP tool servers and the
// naming and error rules for calling tools through them.
package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultMaxSessionsPerEndpoint bounds the pool per endpoint. Once the
// bound is reached, callers queue until a session is returned.
const DefaultMaxSessionsPerEndpoint = 4

// Session is one pooled MCP client session.
type Session struct {
	endpoint string
	cs       *gomcp.ClientSession
}

// CallTool invokes a remote tool over this session with the given per-call
// timeout. The observation text is the concatenation of the result's text
// content. Tool-reported errors and wire failures come back as *RemoteError.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any, timeout time.Duration) (string, *RemoteError) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.cs.CallTool(callCtx, &gomcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", classifyCallError(err)
	}
	text := flattenContent(result.Content)
	if result.IsError {
		return "", &RemoteError{Kind: ErrorProtocol, Message: text}
	}
	return text, nil
}

func flattenContent(contents []gomcp.Content) string {
	var sb strings.Builder
	for i, content := range contents {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch c := content.(type) {
		case *gomcp.TextContent:
			sb.WriteString(c.Text)
		default:
			sb.WriteString("[unsupported content type]")
		}
	}
	return sb.String()
}

type endpointPool struct {
	sem  chan struct{}
	mu   sync.Mutex
	idle []*Session
}

// SessionPool lends MCP client sessions keyed by endpoint URL. Sessions are
// dialed on demand up to a per-endpoint bound and reused across calls; the
// pool lives for the life of the worker process.
type SessionPool struct {
	mu        sync.Mutex
	endpoints map[string]*endpointPool
	max       int

	// dial is replaced in tests to connect over in-memory transports.
	dial func(ctx context.Context, endpoint string) (*gomcp.ClientSession, error)
}

// NewSessionPool creates a pool with the given per-endpoint session bound.
func NewSessionPool(maxPerEndpoint int) *SessionPool {
	if maxPerEndpoint <= 0 {
		maxPerEndpoint = DefaultMaxSessionsPerEndpoint
	}
	return &SessionPool{
		endpoints: make(map[string]*endpointPool),
		max:       maxPerEndpoint,
		dial:      dialStreamable,
	}
}

func dialStreamable(ctx context.Context, endpoint string) (*gomcp.ClientSession, error) {
	client := gomcp.NewClient(&gomcp.Implementation{
		Name:    "durable-agent",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, &gomcp.StreamableClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to MCP server %s: %w", endpoint, err)
	}
	return session, nil
}

func (p *SessionPool) endpoint(url string) *endpointPool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ep, ok := p.endpoints[url]
	if !ok {
		ep = &endpointPool{sem: make(chan struct{}, p.max)}
		p.endpoints[url] = ep
	}
	return ep
}

// Acquire borrows a session for the endpoint, dialing a new one when none
// is idle and the bound allows it. Blocks while the endpoint is at its
// bound until a session is released or ctx is done. Dial failures surface
// as transport RemoteErrors so the activity retry policy applies.
func (p *SessionPool) Acquire(ctx context.Context, endpoint string) (*Session, error) {
	ep := p.endpoint(endpoint)

	select {
	case ep.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, &RemoteError{Kind: ErrorTimeout, Message: "waiting for session: " + ctx.Err().Error()}
	}

	ep.mu.Lock()
	if n := len(ep.idle); n > 0 {
		s := ep.idle[n-1]
		ep.idle = ep.idle[:n-1]
		ep.mu.Unlock()
		return s, nil
	}
	ep.mu.Unlock()

	cs, err := p.dial(ctx, endpoint)
	if err != nil {
		<-ep.sem
		return nil, &RemoteError{Kind: ErrorTransport, Message: err.Error()}
	}
	return &Session{endpoint: endpoint, cs: cs}, nil
}

// Release returns a borrowed session to its endpoint's idle list.
func (p *SessionPool) Release(s *Session) {
	if s == nil {
		return
	}
	ep := p.endpoint(s.endpoint)
	ep.mu.Lock()
	ep.idle = append(ep.idle, s)
	ep.mu.Unlock()
	<-ep.sem
}

// Discard closes a borrowed session instead of returning it, freeing its
// pool slot. Used after transport failures so a broken connection is not
// handed to the next caller.
func (p *SessionPool) Discard(s *Session) {
	if s == nil {
		return
	}
	if err := s.cs.Close(); err != nil {
		log.Printf("mcp: closing session for %s: %v", s.endpoint, err)
	}
	ep := p.endpoint(s.endpoint)
	<-ep.sem
}

// Shutdown closes all idle sessions. Borrowed sessions are closed by their
// holders via Release/Discard.
func (p *SessionPool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for url, ep := range p.endpoints {
		ep.mu.Lock()
		for _, s := range ep.idle {
			if err := s.cs.Close(); err != nil {
				log.Printf("mcp: closing session for %s: %v", url, err)
			}
		}
		ep.idle = nil
		ep.mu.Unlock()
	}
	p.endpoints = make(map[string]*endpointPool)
}
