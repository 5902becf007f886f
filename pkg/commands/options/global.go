package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GlobalOptions are the persistent flags shared by every command. Each one
// overrides the matching config key.
type GlobalOptions struct {
	Post      string
	UserID    string
	UserName  string
	Backend   string
	Path      string
	LogLevel  string
	LogFormat string
}

var globalKeys = map[string]string{
	"post":       "post",
	"user":       "user.id",
	"user-name":  "user.name",
	"backend":    "backend",
	"path":       "path",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.Post, "post", "p", "",
		"Post whose comment thread to use.")
	f.StringVarP(&o.UserID, "user", "u", "",
		"Id of the acting user. Defaults to $USER.")
	f.StringVar(&o.UserName, "user-name", "",
		"Display name of the acting user. Defaults to the user id.")
	f.StringVar(&o.Backend, "backend", "",
		"Storage backend: diskv, sqlite or memory.")
	f.StringVar(&o.Path, "path", "",
		"Directory holding the comment database.")
	f.StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
	f.StringVar(&o.LogFormat, "log-format", "",
		"Log format: console or json.")
}

// Bind registers the flags of cmd on v so they take precedence over the
// config file and environment.
func Bind(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range globalKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
