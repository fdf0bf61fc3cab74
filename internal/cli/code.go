package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/planora/internal/document"
)

func newCodeCommand(opts *options) *cobra.Command {
	var kind, id, fallback string

	cmd := &cobra.Command{
		Use:   "code",
		Short: "Print the code of one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := document.ParseKind(kind)
			if err != nil {
				return err
			}

			docID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			fallbackID, err := optionalUUIDFlag("fallback-event", fallback)
			if err != nil {
				return err
			}

			e, err := opts.load(nil)
			if err != nil {
				return err
			}

			entry, err := e.register.Resolve(cmd.Context(), k, docID, fallbackID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), entry.Code)

			return err
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "document kind or prefix (QT, INV, CON, QST)")
	cmd.Flags().StringVar(&id, "id", "", "document id")
	cmd.Flags().StringVar(&fallback, "fallback-event", "", "event giving date context to documents without one")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func optionalUUIDFlag(name, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}

	return &id, nil
}
