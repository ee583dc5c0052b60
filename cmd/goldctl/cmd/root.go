// Package cmd implements goldctl, the operator command line for the ledger.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/amirasaad/goldvault/infra/initializer"
	"github.com/amirasaad/goldvault/pkg/app"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// runtime is what a subcommand needs once configuration is loaded.
type runtime struct {
	cfg  *config.App
	deps *initializer.Deps
	app  *app.App
}

type options struct {
	envFile string
	load    func(envFile string) (*config.App, error)
}

// NewRootCmd builds the goldctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{load: func(envFile string) (*config.App, error) { return config.Load(envFile) }})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "goldctl",
		Short: "Operate the gold ledger",
		Long: `goldctl runs the operator tasks of the gold ledger:

  - applying database migrations
  - opening accounts and reconciling balances
  - settling pending withdrawals
  - running due recurring investments
  - issuing API tokens`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "environment file to load")

	root.AddCommand(
		newMigrateCmd(opts),
		newAccountCmd(opts),
		newRecurringCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// bootstrap loads configuration and wires the services. The caller must call
// the returned close function.
func (o *options) bootstrap(cmd *cobra.Command) (*runtime, func(), error) {
	cfg, err := o.load(o.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(deps.Deps, cfg)
	if err != nil {
		_ = deps.Close()
		return nil, nil, err
	}
	return &runtime{cfg: cfg, deps: deps, app: a}, func() { _ = deps.Close() }, nil
}

func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✔ "+format+"\n", args...)
}

func warn(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprintf(w, "! "+format+"\n", args...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
