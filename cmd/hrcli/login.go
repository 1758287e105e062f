package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/hroffice/go-hrclient/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginSubdomain string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to an HR Office tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginSubdomain, "subdomain", "s", "", "tenant subdomain (resolved from email when omitted)")
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}

	figure.NewFigure(a.cfg.GetAppName(), "", true).Print()

	company, err := resolveTenant(ctx, a, email)
	if err != nil {
		return err
	}
	fmt.Printf("Tenant: %s (%s, %s)\n", company.Name, company.Subdomain, company.Status)
	if !company.Usable() {
		fmt.Println("Warning: this tenant's subscription is not active.")
	}

	if _, err := a.manager.RequestChallenge(ctx, email); err != nil {
		return err
	}

	fmt.Print("Password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	outcome, err := a.manager.SubmitPassword(ctx, string(password), true)
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case session.OutcomeRedirect:
		fmt.Printf("This tenant uses single sign-on. Continue in a browser:\n  %s\n", outcome.RedirectURL)
		return nil
	case session.OutcomeCode:
		if _, err := a.manager.ExchangeAuthorizationCode(ctx, outcome.AuthorizationCode); err != nil {
			return err
		}
	}

	user, err := a.manager.FetchCurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s <%s> (%s)\n", user.FullName(), user.Email, user.Role)
	return nil
}
