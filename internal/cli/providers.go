package cli

import (
	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/provider"
)

// NewProvidersCommand creates the providers command.
func NewProvidersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List sync providers and their settings",
		Long: `List registered sync providers in dispatch order, with each
provider's settings toggle. Toggles that were never saved show the
provider's default.

Examples:
  iwpsync providers
  iwpsync providers --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviders(rootOpts, cmd)
		},
	}
}

func runProviders(opts *RootOptions, cmd *cobra.Command) error {
	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	settings, err := s.Settings(cmd.Context())
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to read settings", err)
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(settings)
	}
	for _, st := range settings {
		state := string(st.Value)
		if !st.Saved {
			state += " (default)"
		}
		f.Text("%-12s %-12s %s", st.ID, st.Title, state)
		f.VerboseLog("  %s: %s", st.FieldID(), st.Tooltip)
	}
	return nil
}

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change provider settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider> <on|off>",
		Short: "Enable or disable a sync provider",
		Long: `Save a provider's settings toggle. Disabled providers record no
events for local metadata writes.

Examples:
  iwpsync settings set post_meta on
  iwpsync settings set term_meta off`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsSet(rootOpts, cmd, args[0], args[1])
		},
	})

	return cmd
}

// SettingResult is the output of settings set.
type SettingResult struct {
	Provider string          `json:"provider"`
	Field    string          `json:"field"`
	Value    provider.Toggle `json:"value"`
}

func runSettingsSet(opts *RootOptions, cmd *cobra.Command, providerID, value string) error {
	toggle, ok := provider.ParseToggle(value)
	if !ok {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidArgs,
			"invalid toggle "+value+": must be on or off", nil)
	}

	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	p, ok := s.Registry().Lookup(providerID)
	if !ok {
		return WrapCodedError(ExitCommandError, ErrCodeNotFound, "unknown provider "+providerID, nil)
	}
	if err := s.SetToggle(cmd.Context(), providerID, toggle); err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to save setting", err)
	}

	f := opts.formatter(cmd)
	result := SettingResult{Provider: providerID, Field: p.Descriptor().FieldID(), Value: toggle}
	if opts.Format == "json" {
		return f.Success(result)
	}
	f.Text("%s: %s", providerID, toggle)
	return nil
}
