package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zebra/internal/app"
)

// unlockWire opens storage and unlocks the vault with the -p password or a
// prompt.
func unlockWire() (*app.Wire, error) {
	w, err := openWire()
	if err != nil {
		return nil, err
	}
	pw, err := vaultPassword()
	if err != nil {
		return nil, err
	}
	if err := w.Vault.Unlock(pw); err != nil {
		return nil, err
	}
	return w, nil
}

func unlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Check the password and print vault status",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := unlockWire()
			if err != nil {
				return err
			}
			data, err := w.Vault.Data()
			if err != nil {
				return err
			}
			s := w.Vault.State()
			ok(cmd, "Unlocked.")
			fmt.Fprintf(cmd.OutOrStdout(), "Address:  %s\nElements: %d\nCiphers:  %s\nStorage:  %s\n",
				s.Address, len(data), s.Settings.Cipher.Orders, w.Storage.Path())
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var showSecrets bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored elements",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := unlockWire()
			if err != nil {
				return err
			}
			data, err := w.Vault.Data()
			if err != nil {
				return err
			}
			if len(data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No elements.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := "ID\tKIND\tTITLE\tLOGIN\tURL"
			if showSecrets {
				header += "\tSECRET"
			}
			fmt.Fprintln(tw, color.CyanString(header))
			for _, e := range data {
				line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", e.ID, e.Kind, e.Title, e.Login, e.URL)
				if showSecrets {
					line += "\t" + e.Secret
				}
				fmt.Fprintln(tw, line)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print secrets in clear text")
	return cmd
}
