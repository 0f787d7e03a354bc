package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"ragrids/internal/auth"
	"ragrids/internal/client"
	"ragrids/internal/logging"
	"ragrids/internal/session"
)

// env is shared by every subcommand once the root flags are parsed.
type env struct {
	server     string
	sessionDir string
	api        *client.Client
}

func (e *env) session(kind auth.Kind) *session.Context {
	return session.New(kind, session.NewFileStore(e.sessionDir, kind), e.api)
}

func main() {
	log.Logger = logging.New("warn", true)

	e := &env{}
	app := &cli.App{
		Name:  "portal",
		Usage: "Work with a ragrids portal as a customer or an admin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Base URL of the portal API",
				EnvVars:     []string{"RAGRIDS_URL"},
				Value:       "http://localhost:8080",
				Destination: &e.server,
			},
			&cli.StringFlag{
				Name:        "session-dir",
				Usage:       "Directory sessions are kept in",
				EnvVars:     []string{"RAGRIDS_SESSION_DIR"},
				Destination: &e.sessionDir,
			},
		},
		Before: func(ctx *cli.Context) error {
			if e.sessionDir == "" {
				dir, err := session.DefaultDir()
				if err != nil {
					return err
				}
				e.sessionDir = dir
			}
			e.api = client.New(e.server)
			return nil
		},
		Commands: []*cli.Command{
			registerCmd(e),
			loginCmd(e),
			logoutCmd(e),
			whoamiCmd(e),
			profileCmd(e),
			uploadCmd(e),
			customersCmd(e),
			downloadCmd(e),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		var redirect *session.RedirectError
		if errors.As(err, &redirect) {
			fmt.Fprintf(os.Stderr, "Not signed in as %s. Run: portal login --kind %s\n", redirect.Kind, redirect.Kind)
			os.Exit(2)
		}
		log.Error().Err(err).Msg("portal failed")
		os.Exit(1)
	}
}

func kindFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "kind",
		Aliases:     []string{"k"},
		Usage:       "Principal kind, admin or user",
		Value:       auth.KindUser.String(),
		Destination: dst,
	}
}
