package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"ragrids/internal/auth"
	"ragrids/internal/config"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/handler"
	"ragrids/internal/logging"
	"ragrids/internal/repository"
	"ragrids/internal/service"
	"ragrids/internal/validation"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log.Logger = logging.New(cfg.LogLevel, true)

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare the store and create the first back-office admin",
		Commands: []*cli.Command{
			adminCmd(cfg),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func adminCmd(cfg *config.Config) *cli.Command {
	var req handler.AdminRegisterRequest
	return &cli.Command{
		Name:  "admin",
		Usage: "Create an admin (password is read from stdin unless ADMIN_PASSWORD is set)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "Display name of the admin",
				EnvVars:     []string{"ADMIN_NAME"},
				Destination: &req.Name,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Login email of the admin",
				EnvVars:     []string{"ADMIN_EMAIL"},
				Destination: &req.Email,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "mobile",
				Usage:       "Indian mobile number",
				EnvVars:     []string{"ADMIN_MOBILE"},
				Destination: &req.Mobile,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			req.Password = os.Getenv("ADMIN_PASSWORD")
			if req.Password == "" {
				sc := bufio.NewScanner(os.Stdin)
				if !sc.Scan() {
					if err := sc.Err(); err != nil {
						return err
					}
					return errors.New("missing password from stdin")
				}
				req.Password = strings.TrimSpace(sc.Text())
			}
			req.Normalize()
			if err := validation.New().Validate(&req); err != nil {
				return err
			}

			stores, err := repository.Open(ctx.Context, cfg)
			if err != nil {
				return err
			}
			defer stores.Close(context.Background())

			svc := service.NewAdminService(stores.Admins, auth.NewBcryptHasher(),
				auth.NewJWTService(auth.KindAdmin, cfg.AdminJWTSecret))
			admin, err := svc.Register(ctx.Context, service.AdminRegistration{
				Name:     req.Name,
				Email:    req.Email,
				Mobile:   req.Mobile,
				Password: req.Password,
			})
			if errors.Is(err, apperrors.ErrEmailRegistered) {
				log.Info().Str("email", req.Email).Msg("admin already exists")
				return nil
			}
			if err != nil {
				return fmt.Errorf("create admin %s: %w", req.Email, err)
			}
			log.Info().Str("id", admin.ID).Str("email", admin.Email).Msg("admin created")
			return nil
		},
	}
}
