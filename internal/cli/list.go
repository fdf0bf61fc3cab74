package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/planora/internal/document"
)

func newListCommand(opts *options) *cobra.Command {
	var kind, eventID, clientID, fallback string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the register of a group of documents",
		Long: `list prints every document of one kind that shares an event or, with
--client, a client but no event. Without either flag the documents that have
neither are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if eventID != "" && clientID != "" {
				return errors.New("--event and --client are mutually exclusive")
			}

			k, err := document.ParseKind(kind)
			if err != nil {
				return err
			}

			key := document.GroupKey{Kind: k}

			if id, err := optionalUUIDFlag("event", eventID); err != nil {
				return err
			} else if id != nil {
				key = document.ForEvent(k, *id)
			}

			if id, err := optionalUUIDFlag("client", clientID); err != nil {
				return err
			} else if id != nil {
				key = document.ForClient(k, *id)
			}

			fallbackID, err := optionalUUIDFlag("fallback-event", fallback)
			if err != nil {
				return err
			}

			e, err := opts.load(nil)
			if err != nil {
				return err
			}

			entries, err := e.register.List(cmd.Context(), key, fallbackID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), e.register.Summary(entries))

			return err
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "document kind or prefix (QT, INV, CON, QST)")
	cmd.Flags().StringVar(&eventID, "event", "", "list the documents of this event")
	cmd.Flags().StringVar(&clientID, "client", "", "list the documents of this client that have no event")
	cmd.Flags().StringVar(&fallback, "fallback-event", "", "event giving date context to documents without one")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}
