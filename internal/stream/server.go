package stream

import "net/http"

// Server exposes the monitor hub over HTTP.
type Server struct {
	mux  *http.ServeMux
	hub  *Hub
	addr string
}

// NewServer creates a server publishing the hub at /ws.
func NewServer(addr string, hub *Hub) *Server {
	s := &Server{
		mux:  http.NewServeMux(),
		hub:  hub,
		addr: addr,
	}
	s.mux.HandleFunc("/ws", hub.Handle)
	return s
}

// Start serves until the listener fails.
func (s *Server) Start() error {
	s.hub.log.Info("monitor stream listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}
