package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rytisguru/nested-comments/pkg/app"
	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/config"
	"github.com/rytisguru/nested-comments/pkg/logging"
	"github.com/rytisguru/nested-comments/pkg/metrics"
	"github.com/rytisguru/nested-comments/pkg/snake"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/thread"
	"github.com/rytisguru/nested-comments/pkg/tree"
	"github.com/rytisguru/nested-comments/pkg/viewstate"
)

// env is everything a command needs to run against the configured backend.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	backend  *app.Service
}

func setup(cmd *cobra.Command) (*env, error) {
	v := viper.New()
	if err := options.Bind(cmd, v); err != nil {
		return nil, err
	}
	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("backend ready",
		zap.String("backend", cfg.BackendName()),
		zap.String("path", cfg.BasePath()),
		zap.String("post", cfg.Post),
	)

	reg := prometheus.NewRegistry()
	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  metrics.NewWithRegistry(reg),
		backend: &app.Service{
			Persistence:  p,
			Identity:     cfg,
			DeletePolicy: tree.ParseDeletePolicy(cfg.DeletePolicy),
		},
	}, nil
}

// thread builds the thread of the configured post.
func (e *env) thread() *thread.Thread {
	return thread.New(e.cfg.Post, e.backend, e.cfg,
		thread.WithStore(tree.New(e.cfg.TreeOptions()...)),
		thread.WithViewState(viewstate.New(e.cfg.ViewStateOptions()...)),
		thread.WithLogger(e.logger),
		thread.WithMetrics(e.metrics),
	)
}

func (e *env) close() {
	_ = e.logger.Sync()
}

var errIDRequired = errors.New("a comment id is required, pass it as an argument or use --interactive")

// pickComment returns the id in args or, when interactive, lets the user
// select one from the thread.
func pickComment(ctx context.Context, th *thread.Thread, args []string, interactive bool, label string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !interactive {
		return "", errIDRequired
	}
	if err := th.Load(ctx); err != nil {
		return "", err
	}
	return snake.SelectComment(os.Stdin, os.Stdout, label, snake.Choices(th.Store().Index()))
}

// message joins args into a message or, when interactive and args are empty,
// prompts for one prefilled with def.
func message(args []string, interactive bool, label, def string) (string, error) {
	if msg := strings.TrimSpace(strings.Join(args, " ")); msg != "" {
		return msg, nil
	}
	if !interactive {
		return "", errors.New("a message is required")
	}
	return snake.PromptMessage(os.Stdin, os.Stdout, label, def, app.DefaultMaxMessageLength)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
