package main

import (
	"context"
	"fmt"

	"github.com/hroffice/go-hrclient/navigation"
	"github.com/hroffice/go-hrclient/tenants"
	"github.com/spf13/cobra"
)

func resolveTenant(ctx context.Context, a *app, email string) (*tenants.Company, error) {
	if loginSubdomain != "" {
		return a.resolver.ResolveBySubdomain(ctx, loginSubdomain)
	}
	return a.resolver.ResolveByEmail(ctx, email)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		user, err := a.manager.FetchCurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\nRole: %s\n", user.FullName(), user.Email, user.Role)
		if user.Company != nil {
			fmt.Printf("Company: %s (%s)\n", user.Company.Name, user.Company.Status)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.manager.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var navCmd = &cobra.Command{
	Use:   "nav [path]",
	Short: "Show the signed-in user's navigation, or resolve the active item for a path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		user, err := a.manager.FetchCurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		items := user.EffectiveNavigation()

		if len(args) == 0 {
			for _, resolved := range navigation.Resolve(items) {
				fmt.Printf("%-18s %s\n", resolved.Label, resolved.CanonicalPath)
			}
			return nil
		}

		path := args[0]
		tenantKey := ""
		if user.Role.CompanyScoped() {
			tenantKey = user.CompanyID
		}
		if active := navigation.ActiveItem(items, path, tenantKey); active != nil {
			fmt.Printf("Active item for %s: %s\n", path, active.Label)
		} else {
			fmt.Printf("No navigation item owns %s (path routing applies)\n", path)
		}
		return nil
	},
}

var tenantCmd = &cobra.Command{
	Use:   "tenant check <subdomain>",
	Short: "Validate a candidate subdomain for tenant self-registration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "check" {
			return fmt.Errorf("unknown tenant subcommand %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		check, err := a.resolver.ValidateSubdomain(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		fmt.Printf("valid: %v\navailable: %v\n", check.Valid, check.Available)
		return nil
	},
}
