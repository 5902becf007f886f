package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	Service *Service
	Name    string
	Version string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string

	// Gatherer, when set, is exposed at MetricsPath next to the MCP endpoint.
	Gatherer    prometheus.Gatherer
	MetricsPath string
}

// NewServer builds the MCP server with every resource and tool registered.
func (r Runner) NewServer() (*server.MCPServer, error) {
	if r.Service == nil || r.Service.Backend == nil {
		return nil, errors.New("mcp runner requires a backend")
	}
	name := r.Name
	if name == "" {
		name = "nested-comments"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and write nested comment threads: list posts, read a thread, comment, reply, edit, delete and like."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	registerResources(srv, r.Service)
	registerTools(srv, r.Service)
	return srv, nil
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	srv, err := r.NewServer()
	if err != nil {
		return err
	}

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) logger() *zap.Logger {
	if r.Service != nil && r.Service.Logger != nil {
		return r.Service.Logger
	}
	return zap.NewNop()
}

// Handler returns the HTTP handler serving MCP at the endpoint path and,
// when a Gatherer is configured, metrics at MetricsPath.
func (r Runner) Handler(srv *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(cleanPath(r.HTTPEndpointPath, "/mcp"), server.NewStreamableHTTPServer(srv))
	if r.Gatherer != nil {
		mux.Handle(cleanPath(r.MetricsPath, "/metrics"), promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func cleanPath(path, def string) string {
	if path == "" {
		path = def
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ListenURL renders the address a client should use to reach the MCP
// endpoint once the listener is bound to a.
func (r Runner) ListenURL(a net.Addr) string {
	scheme := "http"
	if r.HTTPServerCert != "" && r.HTTPServerKey != "" {
		scheme = "https"
	}
	host, port := "127.0.0.1", ""
	if tcp, ok := a.(*net.TCPAddr); ok {
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
		port = strconv.Itoa(tcp.Port)
	} else if h, p, err := net.SplitHostPort(a.String()); err == nil {
		host, port = h, p
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, port), cleanPath(r.HTTPEndpointPath, "/mcp"))
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	if (r.HTTPServerCert == "") != (r.HTTPServerKey == "") {
		return errors.New("both http tls cert and key must be provided")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	addr := r.HTTPListenAddr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Handler:           r.Handler(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.logger().Info("mcp server listening", zap.String("url", r.ListenURL(ln.Addr())))
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if r.HTTPServerCert != "" {
			err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
		} else {
			err = httpSrv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
