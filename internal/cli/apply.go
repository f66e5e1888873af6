package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/event"
)

// ApplyResult is the output of the apply command.
type ApplyResult struct {
	Responses []*event.Response `json:"responses"`
	Applied   int               `json:"applied"`
	Pending   int               `json:"pending"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <batch.yaml>",
		Short: "Apply an inbound batch from the linked site",
		Long: `Validate an inbound YAML batch and replay each event through the
sync providers. Replayed metadata writes record no new events.

Events no provider handles, or whose post or term has no local match,
are reported as pending.

Exit codes:
  0 - Batch applied
  1 - Invalid batch or provider failure
  2 - Command error (file or database not found, etc.)

Examples:
  iwpsync apply batch.yaml
  iwpsync apply batch.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, cmd, args[0])
		},
	}
}

func runApply(opts *RootOptions, cmd *cobra.Command, path string) error {
	events, err := event.LoadInbound(path)
	if err != nil {
		var verr *event.ValidationError
		if errors.As(err, &verr) {
			return WrapCodedError(ExitFailure, ErrCodeInvalidBatch, "invalid batch", err)
		}
		return WrapCodedError(ExitCommandError, ErrCodeInvalidBatch, "failed to load batch", err)
	}

	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	responses, err := s.Apply(cmd.Context(), events)
	if err != nil {
		return WrapCodedError(ExitFailure, ErrCodeSyncFailed, "failed to apply batch", err)
	}

	result := ApplyResult{Responses: responses}
	for _, resp := range responses {
		if resp.Status == event.StatusCompleted {
			result.Applied++
		} else {
			result.Pending++
		}
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(result)
	}
	for _, resp := range responses {
		f.Text("%-36s %-18s %-9s %s", resp.EventID, resp.Slug, resp.Status, resp.Message)
	}
	f.Text("Applied %d, pending %d", result.Applied, result.Pending)
	return nil
}
