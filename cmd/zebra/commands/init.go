package commands

import (
	"crypto/rand"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zebra/internal/bip39"
	"zebra/internal/services/vault"
)

func initCmd() *cobra.Command {
	var (
		email      string
		phrase     string
		passphrase string
		serverSync bool
		words      int
		language   string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a vault protected by a password and a recovery mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire()
			if err != nil {
				return err
			}
			if w.Vault.Inited() {
				return vault.ErrAlreadyInited
			}

			lang := cfg.Mnemonic.Language
			if language != "" {
				if lang, err = bip39.ParseLanguage(language); err != nil {
					return err
				}
			}
			if words == 0 {
				words = cfg.Mnemonic.Words
			}

			var m *bip39.Mnemonic
			generated := phrase == ""
			if generated {
				m, err = bip39.Generate(rand.Reader, lang, words)
			} else {
				m, err = bip39.Parse(lang, phrase)
			}
			if err != nil {
				return err
			}

			pw, err := newPassword(password)
			if err != nil {
				return err
			}
			warnWeak(cmd, pw)

			err = w.Vault.Init(vault.InitParams{
				Password:           pw,
				Mnemonic:           m,
				MnemonicPassphrase: passphrase,
				Email:              email,
				ServerSync:         serverSync,
				Cipher:             cfg.CipherSettings(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if generated {
				fmt.Fprintln(out, color.YellowString("Recovery mnemonic (write it down, it is shown once):"))
				fmt.Fprintln(out, m.Phrase())
			}
			addr, _ := w.Vault.Address()
			ok(cmd, "Vault created.\nAddress: %s", addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email stored with the vault")
	cmd.Flags().StringVar(&phrase, "mnemonic", "", "use this mnemonic instead of generating one")
	cmd.Flags().StringVar(&passphrase, "mnemonic-passphrase", "", "optional mnemonic passphrase")
	cmd.Flags().BoolVar(&serverSync, "server-sync", false, "mark the vault for server sync")
	cmd.Flags().IntVar(&words, "words", 0, "mnemonic length: 12, 15, 18, 21 or 24 (default from config)")
	cmd.Flags().StringVar(&language, "language", "", "mnemonic language (default from config)")
	return cmd
}
