package rpc

import (
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hpcsim/bsched/common/stats"
)

// Handler processes one raw request payload into one raw response payload.
type Handler interface {
	Decide(raw []byte) ([]byte, error)
	Close() error
}

// Server accepts connections and runs the request/response loop against the
// handler. Connections are served one at a time: the handler is a
// single-actor state machine, and a session owns the full simulation state,
// so interleaving two resource managers would be meaningless.
type Server struct {
	handler Handler
	stat    stats.StatsReceiver

	mu sync.Mutex
	ln net.Listener
}

func NewServer(handler Handler, stat stats.StatsReceiver) *Server {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Server{handler: handler, stat: stat}
}

// Serve listens on addr and blocks serving sessions until Stop is called or
// the listener fails.
func (s *Server) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", addr)
	}
	return s.ServeListener(ln)
}

// ServeListener serves sessions from an existing listener. The listener is
// closed when serving stops.
func (s *Server) ServeListener(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()
	log.WithFields(log.Fields{"addr": ln.Addr().String()}).Info("Scheduler listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if isClosedErr(err) {
				return nil
			}
			return errors.Wrap(err, "accepting connection")
		}
		s.serveConn(conn)
	}
}

// Addr returns the bound listen address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stop closes the listener; the active session, if any, runs to its
// connection's end.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	log.WithFields(log.Fields{"remote": conn.RemoteAddr().String()}).Info("Session started")

	for {
		request, err := readFrame(conn)
		if err != nil {
			if err == io.EOF {
				log.Info("Session ended")
			} else {
				log.WithFields(log.Fields{"err": err}).Error("Session read failed")
				s.stat.Counter(stats.RpcRequestErrorsCounter).Inc(1)
			}
			return
		}
		s.stat.Counter(stats.RpcRequestsCounter).Inc(1)

		response, err := s.handler.Decide(request)
		if err != nil {
			// A handler failure means the session's state is suspect; drop the
			// connection rather than answer with garbage.
			log.WithFields(log.Fields{"err": err}).Error("Request handling failed")
			s.stat.Counter(stats.RpcRequestErrorsCounter).Inc(1)
			return
		}

		if err := writeFrame(conn, response); err != nil {
			log.WithFields(log.Fields{"err": err}).Error("Session write failed")
			s.stat.Counter(stats.RpcRequestErrorsCounter).Inc(1)
			return
		}
	}
}

func isClosedErr(err error) bool {
	opErr, ok := err.(*net.OpError)
	return ok && opErr.Err.Error() == "use of closed network connection"
}
