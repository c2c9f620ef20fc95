package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"greenwell-service/pkg/client"

	"github.com/spf13/cobra"
)

var (
	baseURL   string
	credsPath string
)

func main() {
	root := &cobra.Command{
		Use:           "greenwellctl",
		Short:         "Command line client for the GreenWell dashboard API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultCreds := filepath.Join(homeDir(), ".greenwell", "credentials.json")
	root.PersistentFlags().StringVar(&baseURL, "base-url", envOr("GREENWELL_API", "http://localhost:8000"), "API base URL")
	root.PersistentFlags().StringVar(&credsPath, "credentials", defaultCreds, "credentials file path")

	root.AddCommand(loginCmd(), logoutCmd(), whoamiCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildController() (*client.Controller, error) {
	store, err := client.NewFileStore(credsPath)
	if err != nil {
		return nil, err
	}
	c := client.New(baseURL, store)
	return client.NewController(c, store, printNotifier{}, nil), nil
}

func loginCmd() *cobra.Command {
	var mobile, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := buildController()
			if err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)
			if mobile == "" {
				mobile = prompt(reader, "Mobile number: ")
			}
			if password == "" {
				password = prompt(reader, "Password: ")
			}

			ctx := context.Background()
			user, err := ctl.Login(ctx, mobile, password)

			var vErr *client.ValidationError
			if errors.As(err, &vErr) {
				for field, msg := range vErr.Fields {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
				}
				return errors.New("invalid credentials format")
			}

			if errors.Is(err, client.ErrSessionConflict) {
				user, err = resolveConflict(ctx, ctl, reader)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", user.FirstName, user.Mobile)
			return nil
		},
	}

	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

// resolveConflict lists the sessions holding the account's slots and lets
// the user pick one to terminate, then retries the login.
func resolveConflict(ctx context.Context, ctl *client.Controller, reader *bufio.Reader) (*client.User, error) {
	conflict, ok := ctl.Conflict()
	if !ok {
		return nil, client.ErrNoConflict
	}

	fmt.Println("You are already logged in on the maximum number of devices:")
	for i, s := range conflict.Sessions {
		fmt.Printf("  [%d] %s (since %s)\n", i+1, s.UserAgent, s.CreatedAt)
	}

	choice := prompt(reader, "Terminate which session? (number, or blank to cancel): ")
	if choice == "" {
		return nil, errors.New("login cancelled")
	}

	var idx int
	if _, err := fmt.Sscanf(choice, "%d", &idx); err != nil || idx < 1 || idx > len(conflict.Sessions) {
		return nil, errors.New("invalid selection")
	}

	return ctl.LogoutSession(ctx, conflict.Sessions[idx-1].ID)
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and drop stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := buildController()
			if err != nil {
				return err
			}
			// Local credentials are dropped even if the server call fails.
			if err := ctl.Logout(context.Background()); err != nil {
				fmt.Fprintln(os.Stderr, "Warning: server logout failed:", err)
			}
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := buildController()
			if err != nil {
				return err
			}

			user, err := ctl.CurrentUser(context.Background())
			if errors.Is(err, client.ErrNotAuthenticated) {
				return errors.New("not logged in, run greenwellctl login")
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s\nMobile: %s\nRole:   %s\n", user.FirstName, user.Mobile, user.Role)
			return nil
		},
	}
}

// printNotifier prints the dashboard's toast messages to the terminal.
type printNotifier struct{}

func (printNotifier) Success(message string) { fmt.Println(message) }
func (printNotifier) Error(message string)   { fmt.Fprintln(os.Stderr, message) }

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
