// Package info prints where comments are stored and which posts have threads.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/rytisguru/nested-comments/pkg/config"
	"github.com/rytisguru/nested-comments/pkg/store"
)

// Info reports the resolved configuration and the posts in the backend.
type Info struct {
	Config      *config.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv(config.PathEnv); override != "" {
		_, _ = fmt.Fprintln(out, config.PathEnv, "found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, config.PathEnv, "env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = config.Load()
		if err != nil {
			return err
		}
	}

	me := n.Config.CurrentUser()
	_, _ = fmt.Fprintln(out, "Config.path:    ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend: ", n.Config.BackendName())
	_, _ = fmt.Fprintln(out, "Config.post:    ", n.Config.Post)
	_, _ = fmt.Fprintf(out, "Config.user:     %s (%s)\n", me.Name, me.ID)
	_, _ = fmt.Fprintln(out, "Delete policy:  ", n.Config.DeletePolicy)

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	posts, err := n.Persistence.Posts(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Posts:\n")
	for _, p := range posts {
		_, _ = fmt.Fprintf(out, "  %s\n", p)
	}
	if len(posts) == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no posts")
	}
	return nil
}
