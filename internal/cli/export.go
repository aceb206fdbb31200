package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the saved board snapshot as JSON",
		Long: "Print the saved board snapshot exactly as stored. An empty slot prints an empty board. " +
			"The snapshot is validated first; an invalid one is reported and nothing is printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			persister, slot, err := openPersister(cmd, app)
			if err != nil {
				return err
			}
			defer slot.Close()

			data, err := persister.Raw(cmd.Context())
			switch {
			case errors.Is(err, store.ErrSlotEmpty):
				if data, err = store.Encode(model.EmptyBoard()); err != nil {
					return err
				}
			case err != nil:
				return fmt.Errorf("reading snapshot: %w", err)
			default:
				if _, _, err := store.Decode(data); err != nil {
					return fmt.Errorf("invalid snapshot: %w", err)
				}
			}

			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, data, "", "  "); err != nil {
					return fmt.Errorf("formatting snapshot: %w", err)
				}
				data = buf.Bytes()
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}
