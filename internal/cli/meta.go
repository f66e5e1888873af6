package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
	"github.com/instawp/twowaysync-sample/internal/site"
	"github.com/instawp/twowaysync-sample/internal/store"
)

// MetaOptions holds flags for meta add and update.
type MetaOptions struct {
	*RootOptions
	JSON bool // parse the value as JSON
}

// MetaResult is the output of a metadata write.
type MetaResult struct {
	Action   string        `json:"action"`
	Entity   string        `json:"entity"`
	ObjectID int64         `json:"object_id"`
	Key      string        `json:"meta_key"`
	Value    metaval.Value `json:"meta_value"`
	Recorded int           `json:"events_recorded"`
}

// NewMetaCommand creates the meta command group.
func NewMetaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MetaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Write post or term metadata",
		Long: `Write post or term metadata. Every write runs through the sync
providers, which record an event when their toggle is on and the key is
not excluded.`,
	}
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "parse value as JSON (objects, arrays, numbers, booleans)")

	for _, action := range []string{"add", "update"} {
		cmd.AddCommand(&cobra.Command{
			Use:   action + " <post|term> <id> <key> <value>",
			Short: metaShort(action),
			Example: fmt.Sprintf(`  iwpsync meta %s post 1 color red
  iwpsync meta %s term 3 settings '{"layout":"wide"}' --json`, action, action),
			Args:          cobra.ExactArgs(4),
			SilenceUsage:  true,
			SilenceErrors: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMeta(opts, cmd, action, args)
			},
		})
	}

	return cmd
}

func metaShort(action string) string {
	if action == "add" {
		return "Add a metadata value"
	}
	return "Update a metadata value, adding it if missing"
}

func runMeta(opts *MetaOptions, cmd *cobra.Command, action string, args []string) error {
	entity := provider.EntityKind(args[0])
	if entity != provider.EntityPost && entity != provider.EntityTerm {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidArgs,
			fmt.Sprintf("invalid entity %q: must be post or term", args[0]), nil)
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidArgs, "invalid id "+args[1], err)
	}
	key := args[2]
	value, err := parseMetaValue(args[3], opts.JSON)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidArgs, "invalid value", err)
	}

	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	ctx := cmd.Context()
	before, err := s.Events(ctx, 0)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to read events", err)
	}

	if err := writeMeta(ctx, s, action, entity, id, key, value); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapCodedError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("%s %d not found", entity, id), err)
		}
		return WrapCodedError(ExitFailure, ErrCodeSyncFailed, fmt.Sprintf("failed to %s %s meta", action, entity), err)
	}

	var after int64
	if len(before) > 0 {
		after = before[len(before)-1].Seq
	}
	recorded, err := s.Events(ctx, after)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to read events", err)
	}

	result := MetaResult{
		Action:   action,
		Entity:   string(entity),
		ObjectID: id,
		Key:      key,
		Value:    value,
		Recorded: len(recorded),
	}
	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(result)
	}
	f.Text("%s %s %d meta %s (%d event(s) recorded)", action, entity, id, key, len(recorded))
	for _, ev := range recorded {
		f.VerboseLog("  %d %s %s", ev.Seq, ev.ID, ev.Record.Slug)
	}
	return nil
}

func writeMeta(ctx context.Context, s *site.Site, action string, entity provider.EntityKind, id int64, key string, value metaval.Value) error {
	switch {
	case action == "add" && entity == provider.EntityPost:
		return s.AddPostMeta(ctx, id, key, value)
	case action == "add":
		return s.AddTermMeta(ctx, id, key, value)
	case entity == provider.EntityPost:
		return s.UpdatePostMeta(ctx, id, key, value)
	default:
		return s.UpdateTermMeta(ctx, id, key, value)
	}
}

func parseMetaValue(raw string, asJSON bool) (metaval.Value, error) {
	if !asJSON {
		return metaval.String(raw), nil
	}
	return metaval.Decode([]byte(raw))
}
