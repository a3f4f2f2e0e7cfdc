package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/khrees2412/stageconnect/internal/app"
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

// offline marks commands that run without the API client
const offline = "offline"

var (
	apiURLFlag  string
	outputFlag  string
	verboseFlag bool

	// set by PersistentPreRunE, closed by Execute
	current *app.App
)

var rootCmd = &cobra.Command{
	Use:   "stageconnect",
	Short: "Terminal client for the StageConnect internship platform",
	Long: `StageConnect connects students, companies and placement managers.
Students browse and apply to internship offers, companies submit offers,
managers validate them and follow the candidacies.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isOffline(cmd) {
			return nil
		}

		application, err := app.NewApp(cmd.Context(), app.Options{
			APIURL:  apiURLFlag,
			Output:  outputFlag,
			Verbose: verboseFlag,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		current = application
		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if current != nil {
		if cerr := current.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", cerr)
		}
	}

	if err != nil {
		red := color.New(color.FgRed)
		red.Fprintf(os.Stderr, "✗ %v\n", err)
		if hint := app.Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Server origin (overrides api_url)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log requests to stderr")
}

func isOffline(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[offline] == "true" || c.Name() == "help" || c.Name() == "completion" || c.Name() == cobra.ShellCompRequestCmd {
			return true
		}
	}
	return false
}

// appFor returns the application and the signed-in user. With roles given
// the user must hold one of them.
func appFor(cmd *cobra.Command, roles ...models.Role) (*app.App, models.User, error) {
	a, err := app.FromContext(cmd.Context())
	if err != nil {
		return nil, models.User{}, err
	}
	user, err := a.Session.RequireRole(roles...)
	if err != nil {
		return a, user, err
	}
	return a, user, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", app.ErrInvalidArgument, arg)
	}
	return id, nil
}

// writeFile writes an exported document, refusing to clobber a directory
func writeFile(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: --out is required", app.ErrInvalidArgument)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", app.ErrInvalidArgument, path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
