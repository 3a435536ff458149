package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/procsim/common/stats"
)

// StateFunc returns a value to render as json on /state.
type StateFunc func() interface{}

func NewTwitterServer(addr string, stats stats.StatsReceiver, state StateFunc) *TwitterServer {
	return &TwitterServer{
		Addr:  addr,
		Stats: stats,
		State: state,
	}
}

type TwitterServer struct {
	Addr  string
	Stats stats.StatsReceiver
	State StateFunc

	server *http.Server
}

// Handler serves the admin paths.
func (s *TwitterServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", helpHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/admin/metrics.json", s.statsHandler)
	mux.HandleFunc("/state", s.stateHandler)
	return mux
}

// Start listens on Addr and serves in the background. It returns the address
// actually bound, which differs from Addr when Addr asks for port 0.
func (s *TwitterServer) Start() (string, error) {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return "", err
	}
	s.server = &http.Server{Handler: s.Handler()}
	log.Infof("Serving http & stats on %s", ln.Addr())
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorf("admin server stopped: %v", err)
		}
	}()
	return ln.Addr().String(), nil
}

// Stop shuts down a server started with Start.
func (s *TwitterServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Error(w, "Common paths: '/health', '/admin/metrics.json', '/state'", 501)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

const contentTypeHdr = "Content-Type"
const contentTypeVal = "application/json; charset=utf-8"

func (s *TwitterServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(contentTypeHdr, contentTypeVal)

	pretty := r.URL.Query().Get("pretty") == "true"
	str := s.Stats.Render(pretty)
	if _, err := io.Copy(w, bytes.NewBuffer(str)); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}

func (s *TwitterServer) stateHandler(w http.ResponseWriter, r *http.Request) {
	if s.State == nil {
		http.Error(w, "no state available", 404)
		return
	}
	w.Header().Set(contentTypeHdr, contentTypeVal)
	enc := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s.State()); err != nil {
		http.Error(w, err.Error(), 500)
	}
}
