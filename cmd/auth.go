package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/khrees2412/stageconnect/internal/app"
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to StageConnect",
	Example: `  stageconnect login --username marc
  stageconnect login --username marc --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			username = prompt(cmd.ErrOrStderr(), reader, "Username")
		}
		if password == "" {
			password = promptSecret(cmd.ErrOrStderr(), cmd.InOrStdin(), reader, "Password")
		}
		if username == "" || password == "" {
			return fmt.Errorf("%w: username and password are required", app.ErrInvalidArgument)
		}

		user, err := a.Session.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		a.Printer.Success("Logged in as %s", user.DisplayName())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Example: `  stageconnect register --username lea --email lea@univ.fr --role student
  stageconnect register --username acme --email rh@acme.fr --role company`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		req := models.RegisterRequest{}
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		roleName, _ := cmd.Flags().GetString("role")

		role, ok := models.ParseRole(roleName)
		if !ok {
			return fmt.Errorf("%w: role must be one of student, company, manager, administrator", app.ErrInvalidArgument)
		}
		req.Role = role

		if req.Username == "" {
			req.Username = prompt(cmd.ErrOrStderr(), reader, "Username")
		}
		if req.Email == "" {
			req.Email = prompt(cmd.ErrOrStderr(), reader, "Email")
		}
		if req.Password == "" {
			req.Password = promptSecret(cmd.ErrOrStderr(), cmd.InOrStdin(), reader, "Password")
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			return fmt.Errorf("%w: username, email and password are required", app.ErrInvalidArgument)
		}

		user, err := a.Session.Register(cmd.Context(), req)
		if err != nil {
			return err
		}
		a.Printer.Success("Account created, logged in as %s (%s)", user.DisplayName(), role.Label())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		logoutErr := a.Session.Logout(cmd.Context())
		if err := a.ForgetSession(); err != nil {
			return fmt.Errorf("clear stored session: %w", err)
		}
		if logoutErr != nil {
			a.Printer.Warn("Logged out locally, but the server did not confirm: %v", logoutErr)
			return nil
		}
		a.Printer.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, user, err := appFor(cmd)
		if err != nil {
			return err
		}
		return a.Printer.User(user)
	},
}

// prompt reads one trimmed line after printing label
func prompt(w io.Writer, reader *bufio.Reader, label string) string {
	fmt.Fprintf(w, "%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptSecret reads a line without echo when in is a terminal. Other
// inputs, such as a pipe, are read through reader.
func promptSecret(w io.Writer, in io.Reader, reader *bufio.Reader, label string) string {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(w, reader, label)
	}

	fmt.Fprintf(w, "%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(secret))
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")

	registerCmd.Flags().StringP("username", "u", "", "Username")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().String("role", "student", "Role: student, company, manager, administrator")
}
