package cli

import (
	"github.com/spf13/cobra"

	"github.com/instawp/twowaysync-sample/internal/content"
)

// PostOptions holds flags for post create.
type PostOptions struct {
	*RootOptions
	Name   string
	Type   string
	Title  string
	Status string
}

// NewPostCommand creates the post command group.
func NewPostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PostOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Long: `Create a post. Creating content records no sync events; only
metadata writes do.

Examples:
  iwpsync post create --name hello-world --title "Hello world!"
  iwpsync post create --name about --type page`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPostCreate(opts, cmd)
		},
	}
	create.Flags().StringVar(&opts.Name, "name", "", "post slug (required)")
	_ = create.MarkFlagRequired("name")
	create.Flags().StringVar(&opts.Type, "type", "post", "post type")
	create.Flags().StringVar(&opts.Title, "title", "", "post title")
	create.Flags().StringVar(&opts.Status, "status", "publish", "post status")

	cmd.AddCommand(create)
	return cmd
}

func runPostCreate(opts *PostOptions, cmd *cobra.Command) error {
	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	post, err := s.CreatePost(cmd.Context(), content.Post{
		Name:   opts.Name,
		Type:   opts.Type,
		Title:  opts.Title,
		Status: opts.Status,
	})
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to create post", err)
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(post.Snapshot())
	}
	f.Text("Created %s %d (%s)", post.Type, post.ID, post.Name)
	return nil
}

// TermOptions holds flags for term create.
type TermOptions struct {
	*RootOptions
	Name     string
	Slug     string
	Taxonomy string
}

// NewTermCommand creates the term command group.
func NewTermCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TermOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Manage taxonomy terms",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a term",
		Long: `Create a taxonomy term.

Examples:
  iwpsync term create --name News --slug news --taxonomy category`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTermCreate(opts, cmd)
		},
	}
	create.Flags().StringVar(&opts.Name, "name", "", "term name (required)")
	_ = create.MarkFlagRequired("name")
	create.Flags().StringVar(&opts.Slug, "slug", "", "term slug (defaults to name)")
	create.Flags().StringVar(&opts.Taxonomy, "taxonomy", "category", "taxonomy")

	cmd.AddCommand(create)
	return cmd
}

func runTermCreate(opts *TermOptions, cmd *cobra.Command) error {
	slug := opts.Slug
	if slug == "" {
		slug = opts.Name
	}

	s, closeSite, err := opts.openSite()
	if err != nil {
		return err
	}
	defer closeSite()

	term, err := s.CreateTerm(cmd.Context(), content.Term{
		Name:     opts.Name,
		Slug:     slug,
		Taxonomy: opts.Taxonomy,
	})
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeDatabase, "failed to create term", err)
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(term.Snapshot())
	}
	f.Text("Created %s %d (%s)", term.Taxonomy, term.ID, term.Slug)
	return nil
}
