package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"ragrids/internal/auth"
	"ragrids/internal/client"
	"ragrids/internal/model"
	"ragrids/internal/portal"
	"ragrids/internal/session"
)

func printProfile(ctx *cli.Context, u *model.User) {
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", u.ID)
	fmt.Fprintf(w, "Name\t%s\n", u.Name)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Mobile\t%s\n", u.Mobile)
	fmt.Fprintf(w, "Company\t%s\n", u.CompanyName)
	fmt.Fprintf(w, "District\t%s\n", u.District)
	for _, f := range u.Files {
		fmt.Fprintf(w, "File\t%s (%s) %s\n", f.OriginalName, f.Kind(), f.URL)
	}
	w.Flush()
}

func profileCmd(e *env) *cli.Command {
	var upd struct{ email, mobile, company, district string }
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or change the signed-in customer's profile",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the profile",
				Action: func(ctx *cli.Context) error {
					return session.UserGuard(e.session(auth.KindUser)).Protect(func(c context.Context, st session.State) error {
						u, err := e.api.GetProfile(c, st.Token, st.Principal.ID)
						if err != nil {
							return err
						}
						printProfile(ctx, u)
						return nil
					})(ctx.Context)
				},
			},
			{
				Name:  "update",
				Usage: "Change the given fields, leaving the rest as they are",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Destination: &upd.email},
					&cli.StringFlag{Name: "mobile", Destination: &upd.mobile},
					&cli.StringFlag{Name: "company", Destination: &upd.company},
					&cli.StringFlag{Name: "district", Destination: &upd.district},
				},
				Action: func(ctx *cli.Context) error {
					var in client.ProfileUpdate
					if ctx.IsSet("email") {
						in.Email = &upd.email
					}
					if ctx.IsSet("mobile") {
						in.Mobile = &upd.mobile
					}
					if ctx.IsSet("company") {
						in.CompanyName = &upd.company
					}
					if ctx.IsSet("district") {
						in.District = &upd.district
					}
					return session.UserGuard(e.session(auth.KindUser)).Protect(func(c context.Context, st session.State) error {
						u, err := e.api.UpdateProfile(c, st.Token, st.Principal.ID, in)
						if err != nil {
							return err
						}
						printProfile(ctx, u)
						return nil
					})(ctx.Context)
				},
			},
		},
	}
}

func uploadCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Attach a document to the signed-in customer's profile",
		ArgsUsage: "FILE",
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return cli.Exit("upload takes exactly one FILE", 2)
			}
			path := ctx.Args().First()
			return session.UserGuard(e.session(auth.KindUser)).Protect(func(c context.Context, st session.State) error {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				ref, err := e.api.Upload(c, st.Token, st.Principal.ID, filepath.Base(path), f)
				if err != nil {
					return err
				}
				fmt.Fprintf(ctx.App.Writer, "Uploaded %s (%s) %s\n", ref.OriginalName, ref.Kind(), ref.URL)
				return nil
			})(ctx.Context)
		},
	}
}

func dashboard(e *env) *portal.Dashboard {
	sess := e.session(auth.KindAdmin)
	return portal.NewDashboard(e.api, sess, portal.WithLogout(sess.Logout))
}

func customersCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "customers",
		Usage: "List customers and their documents (admin)",
		Action: func(ctx *cli.Context) error {
			rows, err := dashboard(e).Customers(ctx.Context)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(ctx.App.Writer, "No customers found")
				return nil
			}
			w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tMOBILE\tCOMPANY\tDISTRICT\tDOCUMENTS")
			for _, row := range rows {
				u := row.User
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
					u.ID, u.Name, u.Email, u.Mobile, u.CompanyName, u.District, len(row.Documents))
				for i, doc := range row.Documents {
					fmt.Fprintf(w, "\t  [%d] %s\t%s\t\t\t\t\n", i, doc.Name, doc.Kind)
				}
			}
			return w.Flush()
		},
	}
}

func downloadCmd(e *env) *cli.Command {
	var dir string
	return &cli.Command{
		Name:      "download",
		Usage:     "Save a customer's document (admin)",
		ArgsUsage: "CUSTOMER_ID INDEX",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"o"}, Usage: "Directory to save into", Value: ".", Destination: &dir},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 2 {
				return cli.Exit("download takes CUSTOMER_ID and INDEX", 2)
			}
			var index int
			if _, err := fmt.Sscanf(ctx.Args().Get(1), "%d", &index); err != nil {
				return cli.Exit("INDEX must be a number", 2)
			}

			d := dashboard(e)
			rows, err := d.Customers(ctx.Context)
			if err != nil {
				return err
			}
			for _, row := range rows {
				if row.User.ID != ctx.Args().First() {
					continue
				}
				if index < 0 || index >= len(row.Documents) {
					return fmt.Errorf("customer %s has %d documents", row.User.ID, len(row.Documents))
				}
				path, err := d.Download(ctx.Context, row.Documents[index], dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(ctx.App.Writer, "Saved %s\n", path)
				return nil
			}
			return fmt.Errorf("customer %s not found", ctx.Args().First())
		},
	}
}
