package commands

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"zebra/internal/bip39"
)

func mnemonicCmd() *cobra.Command {
	var language string
	lang := func() (bip39.Language, error) {
		if language == "" {
			return cfg.Mnemonic.Language, nil
		}
		return bip39.ParseLanguage(language)
	}

	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "Generate or validate BIP-39 mnemonics",
	}
	cmd.PersistentFlags().StringVar(&language, "language", "", "mnemonic language (default from config)")

	var words int
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Print a fresh mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lang()
			if err != nil {
				return err
			}
			if words == 0 {
				words = cfg.Mnemonic.Words
			}
			m, err := bip39.Generate(rand.Reader, l, words)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Phrase())
			return nil
		},
	}
	gen.Flags().IntVar(&words, "words", 0, "12, 15, 18, 21 or 24 (default from config)")

	validate := &cobra.Command{
		Use:   "validate <word>...",
		Short: "Check a mnemonic phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lang()
			if err != nil {
				return err
			}
			m, err := bip39.Parse(l, strings.Join(args, " "))
			if err != nil {
				return err
			}
			ok(cmd, "Valid %d word %s mnemonic.", m.WordCount(), m.Language())
			return nil
		},
	}

	cmd.AddCommand(gen, validate)
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or write the configuration",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.Path(), b)
			return nil
		},
	}
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Save(); err != nil {
				return err
			}
			ok(cmd, "Wrote %s", cfg.Path())
			return nil
		},
	}
	cmd.AddCommand(show, save)
	return cmd
}
