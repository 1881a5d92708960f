package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zebra/internal/crypto"
	"zebra/internal/state"
)

func addressCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the vault address",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire()
			if err != nil {
				return err
			}
			addr, err := w.Vault.Address()
			if err != nil {
				return err
			}
			if short {
				addr = crypto.Fingerprint([]byte(addr))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\n", addr)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print a 20 character SHA-256 digest of the address string")
	return cmd
}

func settingsCmd() *cobra.Command {
	var (
		appearance string
		locale     string
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire()
			if err != nil {
				return err
			}
			s := w.Vault.Settings()
			if cmd.Flags().Changed("appearance") || cmd.Flags().Changed("locale") {
				a := s.Appearance
				if cmd.Flags().Changed("appearance") {
					if a, err = state.ParseAppearance(appearance); err != nil {
						return err
					}
				}
				l := s.Locale
				if cmd.Flags().Changed("locale") {
					l = locale
				}
				if err := w.Vault.UpdateSettings(a, l); err != nil {
					return err
				}
				s = w.Vault.Settings()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appearance: %s\nLocale:     %s\nDifficulty: %d\nCiphers:    %s\n",
				s.Appearance, s.Locale, s.Cipher.Difficulty, s.Cipher.Orders)
			return nil
		},
	}
	cmd.Flags().StringVar(&appearance, "appearance", "", "system, light or dark")
	cmd.Flags().StringVar(&locale, "locale", "", "interface locale, e.g. en")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase the vault from local storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to erase without --yes")
			}
			w, err := openWire()
			if err != nil {
				return err
			}
			if !w.Vault.Inited() {
				return state.ErrStateNotInited
			}
			if err := w.Vault.Reset(); err != nil {
				return err
			}
			ok(cmd, "Vault erased.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm erasing the vault")
	return cmd
}
