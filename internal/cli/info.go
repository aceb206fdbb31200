package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the saved board",
		Long: "Print the storage backend, when the board was last saved, and one line per workspace. " +
			"The save time is only known for backends that record it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			persister, slot, err := openPersister(cmd, app)
			if err != nil {
				return err
			}
			defer slot.Close()

			b, err := persister.Load(cmd.Context())
			switch {
			case store.IsFirstRun(err):
				b = model.EmptyBoard()
			case err != nil:
				return fmt.Errorf("reading snapshot: %w", err)
			}

			saved, err := lastSaved(cmd.Context(), slot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend: %s\n", cfg.Storage.Backend)
			fmt.Fprintf(out, "saved:   %s\n", saved)
			fmt.Fprintf(out, "workspaces: %d\n", len(b.Workspaces))
			for _, ws := range b.Workspaces {
				active := ""
				if b.IsActive(ws.ID) {
					active = " (open)"
				}
				fmt.Fprintf(out, "  %s: %s%s\n", ws.Title, ws.Summary(), active)
			}
			return nil
		},
	}
}

// lastSaved describes when slot was last written.
func lastSaved(ctx context.Context, slot store.Slot) (string, error) {
	stamped, ok := slot.(store.Stamped)
	if !ok {
		return "unknown", nil
	}
	ts, err := stamped.UpdatedAt(ctx)
	switch {
	case errors.Is(err, store.ErrSlotEmpty):
		return "never", nil
	case err != nil:
		return "", err
	}
	return ts.Local().Format(time.DateTime), nil
}
