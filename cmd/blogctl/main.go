// Package main is blogctl, a command line client for the BlogCraft API.
// The login session is cached in a file under the user's config directory
// or in Valkey, selected by BLOGCTL_SESSION.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"blogcraft/internal/cache"
	"blogcraft/internal/client"
	"blogcraft/internal/config"
	"blogcraft/internal/session"
)

const usage = `usage: blogctl <command> [flags] [args]

Account:
  register -email EMAIL        create an account (prompts for a password)
  login -email EMAIL           log in and cache the session
  logout                       forget the cached session
  whoami                       show the cached identity

Posts:
  posts [-all] [-status S] [-category ID|NAME]
                               list published posts, -all includes drafts (admin)
  post ID|SLUG                 show one post
  new-post -title T -content-file F [-slug S] [-excerpt E] [-category ID] [-image URL] [-markdown] [-publish]
                               F may be - for stdin, .md files are rendered to HTML
  edit-post [-title T] [-content-file F] [-excerpt E] [-category ID] [-image URL] [-status S] [-markdown] ID
                               change only the given fields
  publish ID                   publish a draft
  unpublish ID                 move a post back to draft
  rm-post ID                   delete a post

Categories:
  categories                   list categories
  add-category -name N [-description D] [-slug S]
  rm-category ID               delete a category

Media:
  upload FILE                  upload an image and print its URL

Environment: BLOGCTL_API, BLOGCTL_SESSION (file|valkey), BLOGCTL_PROFILE,
VALKEY_HOST, VALKEY_PORT, VALKEY_PASSWORD, VALKEY_DB.
`

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		var apiErr *client.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Fprintln(os.Stderr, "blogctl:", apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "blogctl:", err)
		}
		os.Exit(1)
	}
}

// run executes one command. It is separate from main so tests can drive it.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, run blogctl help", args[0])
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	sessions, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	c, err := client.New(ctx, cfg.APIURL, sessions)
	if err != nil {
		return err
	}

	return cmd(ctx, &app{client: c, stdin: stdin, stdout: stdout}, args[1:])
}

// openCache builds the session cache selected by the configuration.
func openCache(ctx context.Context, cfg *config.ClientConfig) (session.Cache, func(), error) {
	switch cfg.Session {
	case config.SessionValkey:
		rdb, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewValkeyCache(rdb, cfg.Profile, session.DefaultTTL), func() { rdb.Close() }, nil
	default:
		path, err := session.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		if cfg.Profile != "default" {
			path = strings.TrimSuffix(path, ".json") + "-" + cfg.Profile + ".json"
		}
		return session.NewFileCache(path), func() {}, nil
	}
}
