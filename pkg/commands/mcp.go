package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve comment threads over the Model Context Protocol",
		Long: `Launch an MCP server that exposes posts, comment threads, and the comment,
reply, edit, delete and like actions as tools. The HTTP transport also serves
Prometheus metrics at --metrics-path.

Examples:
  nested-comments mcp --http-port 0
  nested-comments mcp --transport stdio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			svc := mcp.NewService(e.backend)
			svc.Logger = e.logger
			svc.Metrics = e.metrics
			svc.TreeOptions = e.cfg.TreeOptions()

			runner := mcp.Runner{
				Service:          svc,
				Name:             "nested-comments",
				Version:          version,
				Transport:        mcp.Transport(strings.ToLower(strings.TrimSpace(so.Transport))),
				HTTPEndpointPath: strings.TrimSpace(so.Path),
				HTTPServerCert:   strings.TrimSpace(so.TLSCert),
				HTTPServerKey:    strings.TrimSpace(so.TLSKey),
				Gatherer:         e.registry,
				MetricsPath:      strings.TrimSpace(so.MetricsPath),
			}

			switch runner.Transport {
			case "", mcp.TransportHTTP:
				addr, err := so.Addr()
				if err != nil {
					return err
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = addr
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", runner.ListenURL(a))
				}
			case mcp.TransportStdio:
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", so.Transport)
			}

			return runner.Do(cmd.Context())
		},
	}

	options.AddServeArgs(cmd, so)
	topLevel.AddCommand(cmd)
}
