package options

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ServeOptions configure the MCP server.
type ServeOptions struct {
	Transport   string
	Host        string
	Port        int
	Path        string
	TLSCert     string
	TLSKey      string
	MetricsPath string
}

func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", "http",
		"Transport to serve on: http or stdio.")
	cmd.Flags().StringVar(&o.Host, "http-host", "127.0.0.1",
		"Interface the HTTP transport binds to.")
	cmd.Flags().IntVar(&o.Port, "http-port", 8080,
		"Port for the HTTP transport, 0 picks a free one.")
	cmd.Flags().StringVar(&o.Path, "http-path", "/mcp",
		"HTTP path of the MCP endpoint.")
	cmd.Flags().StringVar(&o.TLSCert, "http-tls-cert", "",
		"TLS certificate file, enables HTTPS together with --http-tls-key.")
	cmd.Flags().StringVar(&o.TLSKey, "http-tls-key", "",
		"TLS private key file.")
	cmd.Flags().StringVar(&o.MetricsPath, "metrics-path", "/metrics",
		"HTTP path serving Prometheus metrics.")
}

// Addr is the host:port the HTTP transport listens on.
func (o *ServeOptions) Addr() (string, error) {
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("invalid http-port %d", o.Port)
	}
	host := strings.TrimSpace(o.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.Port)), nil
}
