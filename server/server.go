package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/treesearch/session"
	"github.com/poiesic/treesearch/tree"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers msgpack requests against one session.
type Server struct {
	session  *session.Session
	dec      *msgpack.Decoder
	out      *bufio.Writer
	enc      *msgpack.Encoder
	logger   *slog.Logger
	requests int
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates a server reading requests from r and writing responses
// to w.
func NewServer(sess *session.Session, r io.Reader, w io.Writer, opts ...Option) (*Server, error) {
	if sess == nil {
		return nil, ErrSessionRequired
	}

	out := bufio.NewWriter(w)
	s := &Server{
		session: sess,
		dec:     msgpack.NewDecoder(bufio.NewReader(r)),
		out:     out,
		enc:     msgpack.NewEncoder(out),
		logger:  slog.Default(),
	}
	s.enc.UseCompactInts(true)

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Serve handles requests until the input ends, ctx is done or a request
// cannot be decoded. A clean end of input returns nil. ctx is checked
// between requests and while waiting for a pass; a blocked read is not
// interrupted.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("starting server")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("input closed", "requests", s.requests)
				return nil
			}
			s.logger.Error("error decoding request", "err", err)
			_ = s.sendError("", "invalid msgpack request", CodeBadRequest)
			return fmt.Errorf("decoding request: %w", err)
		}
		s.requests++

		if err := s.handle(ctx, req); err != nil {
			return err
		}
	}
}

// handle answers one request. Only write failures and cancellation of ctx
// are returned; request failures are sent to the client.
func (s *Server) handle(ctx context.Context, req Request) error {
	switch req.Action {
	case "", ActionQuery:
		return s.handleQuery(ctx, req)
	case ActionClear:
		if err := s.session.SetQuery(""); err != nil {
			return s.sendError(req.ID, err.Error(), CodeInternal)
		}
		return s.send(s.snapshot(req.ID, 0))
	case ActionStatus:
		return s.send(s.snapshot(req.ID, req.Limit))
	default:
		s.logger.Debug("unknown action", "id", req.ID, "action", req.Action)
		return s.sendError(req.ID, fmt.Sprintf("%s: %q", ErrUnknownAction, req.Action), CodeBadRequest)
	}
}

func (s *Server) handleQuery(ctx context.Context, req Request) error {
	if err := s.session.SetQuery(req.Query); err != nil {
		s.logger.Error("error setting query", "id", req.ID, "err", err)
		return s.sendError(req.ID, err.Error(), CodeInternal)
	}
	if err := s.session.Wait(ctx); err != nil {
		return err
	}
	return s.send(s.snapshot(req.ID, req.Limit))
}

// snapshot describes the session's current results, returning at most
// limit of them when limit is positive.
func (s *Server) snapshot(id string, limit int) Response {
	items := s.session.Results()
	last := s.session.LastResult()

	n := len(items)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make([]Result, n)
	for i, item := range items[:n] {
		path, _ := tree.ValueOf[string](item)
		rank := item.Rank()
		results[i] = Result{
			Text:   item.Text(),
			Path:   path,
			Index:  rank.Index,
			Length: rank.Length,
		}
	}

	return Response{
		ID:        id,
		Query:     last.Query,
		Results:   results,
		Count:     len(items),
		Limited:   s.session.ReachedLimit(),
		State:     last.State.String(),
		TimeTaken: last.Elapsed.Microseconds(),
	}
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.logger.Error("error encoding response", "err", err)
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
