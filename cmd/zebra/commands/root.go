package commands

import (
	"github.com/spf13/cobra"

	"zebra/internal/app"
)

var (
	home     string
	password string
	logLevel string

	cfg  *app.Config
	wire *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	err := newRootCmd().Execute()
	if cerr := closeWire(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "zebra",
		Short:        "Local password vault with post-quantum encryption",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.Load(home)
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			cfg = loaded
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeWire()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.zebra, or $ZEBRA_HOME)")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "vault password (prompted when omitted)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		initCmd(),
		unlockCmd(),
		listCmd(),
		addCmd(),
		removeCmd(),
		passwdCmd(),
		recoverCmd(),
		addressCmd(),
		settingsCmd(),
		resetCmd(),
		mnemonicCmd(),
		configCmd(),
	)
	return root
}

// openWire builds storage and the vault service on first use.
func openWire() (*app.Wire, error) {
	if wire != nil {
		return wire, nil
	}
	w, err := app.NewWire(cfg)
	if err != nil {
		return nil, err
	}
	wire = w
	return wire, nil
}

func closeWire() error {
	if wire == nil {
		return nil
	}
	err := wire.Close()
	wire = nil
	return err
}
