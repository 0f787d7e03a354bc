package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"ragrids/internal/auth"
	"ragrids/internal/client"
)

// readPassword takes the password from RAGRIDS_PASSWORD or the first line of stdin.
func readPassword() (string, error) {
	if pw := os.Getenv("RAGRIDS_PASSWORD"); pw != "" {
		return pw, nil
	}
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("missing password from stdin")
	}
	pw := strings.TrimSpace(sc.Text())
	if pw == "" {
		return "", errors.New("missing password from stdin")
	}
	return pw, nil
}

func registerCmd(e *env) *cli.Command {
	var kind string
	var in client.UserRegistration
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account (password is read from stdin)",
		Flags: []cli.Flag{
			kindFlag(&kind),
			&cli.StringFlag{Name: "name", Usage: "Full name", Destination: &in.Name, Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Login email", Destination: &in.Email, Required: true},
			&cli.StringFlag{Name: "mobile", Usage: "Indian mobile number", Destination: &in.Mobile, Required: true},
			&cli.StringFlag{Name: "company", Usage: "Company name (customers only)", Destination: &in.CompanyName},
			&cli.StringFlag{Name: "district", Usage: "District (customers only)", Destination: &in.District},
		},
		Action: func(ctx *cli.Context) error {
			k, err := auth.ParseKind(kind)
			if err != nil {
				return err
			}
			if in.Password, err = readPassword(); err != nil {
				return err
			}

			var id string
			if k == auth.KindAdmin {
				id, err = e.api.RegisterAdmin(ctx.Context, client.AdminRegistration{
					Name:     in.Name,
					Email:    in.Email,
					Mobile:   in.Mobile,
					Password: in.Password,
				})
			} else {
				if in.CompanyName == "" || in.District == "" {
					return errors.New("--company and --district are required for customers")
				}
				id, err = e.api.RegisterUser(ctx.Context, in)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "Registered %s %s\n", k, id)
			return nil
		},
	}
}

func loginCmd(e *env) *cli.Command {
	var kind, email string
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and keep the session (password is read from stdin)",
		Flags: []cli.Flag{
			kindFlag(&kind),
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Login email", Destination: &email, Required: true},
		},
		Action: func(ctx *cli.Context) error {
			k, err := auth.ParseKind(kind)
			if err != nil {
				return err
			}
			pw, err := readPassword()
			if err != nil {
				return err
			}
			st, err := e.session(k).Login(ctx.Context, email, pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "Signed in as %s (%s %s)\n", st.Principal.Name, k, st.Principal.ID)
			return nil
		},
	}
}

func logoutCmd(e *env) *cli.Command {
	var kind string
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the session",
		Flags: []cli.Flag{kindFlag(&kind)},
		Action: func(ctx *cli.Context) error {
			k, err := auth.ParseKind(kind)
			if err != nil {
				return err
			}
			signOut := e.session(k).Logout
			if k == auth.KindAdmin {
				signOut = dashboard(e).SignOut
			}
			if err := signOut(ctx.Context); err != nil {
				fmt.Fprintf(ctx.App.ErrWriter, "Server logout failed (%v), local session cleared\n", err)
			}
			fmt.Fprintf(ctx.App.Writer, "Signed out\n")
			return nil
		},
	}
}

func whoamiCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the stored sessions",
		Action: func(ctx *cli.Context) error {
			for _, k := range []auth.Kind{auth.KindAdmin, auth.KindUser} {
				st := e.session(k).Current()
				if !st.Authenticated() {
					fmt.Fprintf(ctx.App.Writer, "%-5s  not signed in\n", k)
					continue
				}
				fmt.Fprintf(ctx.App.Writer, "%-5s  %s <%s> %s\n", k, st.Principal.Name, st.Principal.Email, st.Principal.ID)
			}
			return nil
		},
	}
}
