package commands

import (
	"os"

	"github.com/spf13/cobra"

	"zebra/internal/bip39"
)

func passwdCmd() *cobra.Command {
	var next string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the vault password",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire()
			if err != nil {
				return err
			}
			old, err := vaultPassword()
			if err != nil {
				return err
			}
			pw, err := newPassword(next)
			if err != nil {
				return err
			}
			warnWeak(cmd, pw)
			if err := w.Vault.ChangePassword(old, pw); err != nil {
				return err
			}
			ok(cmd, "Password changed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&next, "new", "", "new password (prompted when omitted)")
	return cmd
}

func recoverCmd() *cobra.Command {
	var (
		phrase     string
		passphrase string
		next       string
		language   string
	)
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Restore access with the recovery mnemonic and set a new password",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire()
			if err != nil {
				return err
			}
			lang := cfg.Mnemonic.Language
			if language != "" {
				if lang, err = bip39.ParseLanguage(language); err != nil {
					return err
				}
			}
			if phrase == "" {
				if phrase, err = readLine(os.Stdin, "Mnemonic: "); err != nil {
					return err
				}
			}
			m, err := bip39.Parse(lang, phrase)
			if err != nil {
				return err
			}
			pw, err := newPassword(next)
			if err != nil {
				return err
			}
			warnWeak(cmd, pw)
			if err := w.Vault.Recover(m, passphrase, pw); err != nil {
				return err
			}
			ok(cmd, "Vault recovered, new password set.")
			return nil
		},
	}
	cmd.Flags().StringVar(&phrase, "mnemonic", "", "recovery mnemonic (read from stdin when omitted)")
	cmd.Flags().StringVar(&passphrase, "mnemonic-passphrase", "", "mnemonic passphrase used at init")
	cmd.Flags().StringVar(&next, "new", "", "new password (prompted when omitted)")
	cmd.Flags().StringVar(&language, "language", "", "mnemonic language (default from config)")
	return cmd
}
