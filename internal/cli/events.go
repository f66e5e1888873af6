package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/site"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	After    int64
	Provider string
}

// EventView is one logged event in command output.
type EventView struct {
	Seq         int64          `json:"seq"`
	ID          string         `json:"id"`
	Provider    string         `json:"provider"`
	ReferenceID string         `json:"reference_id"`
	Hash        string         `json:"hash"`
	Slug        event.Slug     `json:"slug"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Data        metaval.Object `json:"data"`
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded sync events",
		Long: `List outbound sync events recorded on this site, in log order.

Examples:
  iwpsync events
  iwpsync events --after 10 --format json
  iwpsync events --provider term_meta`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(opts, cmd)
		},
	}
	cmd.Flags().Int64Var(&opts.After, "after", 0, "only events with seq greater than this")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "only events recorded by this provider")

	return cmd
}

// readEventsError maps a failed event log read to an exit error.
func readEventsError(err error) error {
	if errors.Is(err, site.ErrUnknownProvider) {
		return WrapCodedError(ExitCommandError, ErrCodeNotFound, "failed to read events", err)
	}
	return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to read events", err)
}

func runEvents(opts *EventsOptions, cmd *cobra.Command) error {
	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	var logged []site.LoggedEvent
	if opts.Provider != "" {
		logged, err = s.ProviderEvents(cmd.Context(), opts.Provider, opts.After)
	} else {
		logged, err = s.Events(cmd.Context(), opts.After)
	}
	if err != nil {
		return readEventsError(err)
	}

	views := make([]EventView, len(logged))
	for i, ev := range logged {
		views[i] = EventView{
			Seq:         ev.Seq,
			ID:          ev.ID,
			Provider:    ev.ProviderID,
			ReferenceID: ev.ReferenceID,
			Hash:        ev.ContentHash,
			Slug:        ev.Record.Slug,
			Name:        ev.Record.Name,
			Type:        ev.Record.Type,
			Title:       ev.Record.Title,
			Data:        ev.Record.Data,
		}
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(views)
	}
	if len(views) == 0 {
		f.Text("No events recorded.")
		return nil
	}
	for _, v := range views {
		f.Text("%4d  %-18s %-20s %s", v.Seq, v.Slug, v.Name, v.Title)
		f.VerboseLog("      id=%s ref=%s hash=%s", v.ID, v.ReferenceID, v.Hash)
	}
	return nil
}
