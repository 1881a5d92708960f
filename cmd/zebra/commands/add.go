package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"zebra/internal/domain"
)

func addCmd() *cobra.Command {
	var (
		kind   string
		title  string
		login  string
		secret string
		url    string
		notes  string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new element",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := domain.ParseKind(kind)
			if err != nil {
				return err
			}
			w, err := unlockWire()
			if err != nil {
				return err
			}
			if secret == "" && k == domain.KindLogin {
				b, err := readSecret("Secret: ")
				if err != nil {
					return err
				}
				secret = string(b)
			}
			e, err := w.Vault.Add(domain.Element{
				Kind:   k,
				Title:  title,
				Login:  login,
				Secret: secret,
				URL:    url,
				Notes:  notes,
			})
			if err != nil {
				return err
			}
			ok(cmd, "Added %s", e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "login", "login, note, card or other")
	cmd.Flags().StringVar(&title, "title", "", "element title")
	cmd.Flags().StringVar(&login, "login", "", "user name")
	cmd.Flags().StringVar(&secret, "secret", "", "secret value (prompted for logins when omitted)")
	cmd.Flags().StringVar(&url, "url", "", "site address")
	cmd.Flags().StringVar(&notes, "notes", "", "free text")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an element by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			w, err := unlockWire()
			if err != nil {
				return err
			}
			if err := w.Vault.Remove(id); err != nil {
				return err
			}
			ok(cmd, "Removed %s", id)
			return nil
		},
	}
}
