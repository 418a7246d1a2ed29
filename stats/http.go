package stats

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/dublinosm/osmcsv/log"
)

// NewMux returns a handler for /metrics and the /debug/pprof/ endpoints.
func NewMux(m *Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartHTTP serves NewMux(m) on bind in the background. It returns once the
// listener is open.
func StartHTTP(bind string, m *Metrics) (*http.Server, error) {
	l, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: NewMux(m)}
	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Printf("[warn] metrics server: %s", err)
		}
	}()
	log.Printf("[info] serving metrics on http://%s/metrics", l.Addr())
	return srv, nil
}
