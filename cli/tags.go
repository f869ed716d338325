package cli

import (
	"fmt"
	"strings"

	"tagdo/tagdo/models"
	"tagdo/tagdo/tui"

	"github.com/spf13/cobra"
)

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Tag management commands",
	}

	cmd.AddCommand(newTagsListCmd(a))
	cmd.AddCommand(newTagsAddCmd(a))
	cmd.AddCommand(newTagsQuickCmd(a))
	cmd.AddCommand(newTagsColorCmd(a))
	cmd.AddCommand(newTagsCycleCmd(a))
	cmd.AddCommand(newTagsDeleteCmd(a))
	cmd.AddCommand(newTagsDeleteLastCmd(a))
	return cmd
}

func printTag(cmd *cobra.Command, tag models.Tag) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s  %s\n", shortID(tag.ID), tag.Color, tui.TagChip(tag))
}

func colorHelp() string {
	names := make([]string, 0, len(models.AllTagColors))
	for _, c := range models.AllTagColors {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func newTagsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.client().ListTags(cmd.Context())
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags.")
				return nil
			}
			for _, tag := range tags {
				printTag(cmd, tag)
			}
			return nil
		},
	}
}

func newTagsAddCmd(a *app) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a tag (name and color default like quick)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tagColor models.TagColor
			if color != "" {
				parsed, err := models.ParseTagColor(color)
				if err != nil {
					return fmt.Errorf("%w (choose from %s)", err, colorHelp())
				}
				tagColor = parsed
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			tag, err := a.client().CreateTag(cmd.Context(), name, tagColor)
			if err != nil {
				return err
			}
			printTag(cmd, *tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "one of "+colorHelp())
	return cmd
}

func newTagsQuickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quick",
		Short: "Add \"Tag <n>\" with a random color",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := a.client().QuickAddTag(cmd.Context())
			if err != nil {
				return err
			}
			printTag(cmd, *tag)
			return nil
		},
	}
}

func newTagsColorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "color <id> <color>",
		Short: "Set a tag's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := models.ParseTagColor(args[1])
			if err != nil {
				return fmt.Errorf("%w (choose from %s)", err, colorHelp())
			}
			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTag(ctx, c, args[0])
			if err != nil {
				return err
			}
			tag, err := c.UpdateTag(ctx, id, "", color)
			if err != nil {
				return err
			}
			printTag(cmd, *tag)
			return nil
		},
	}
}

func newTagsCycleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Toggle a tag to the next palette color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTag(ctx, c, args[0])
			if err != nil {
				return err
			}
			tag, err := c.CycleTagColor(ctx, id)
			if err != nil {
				return err
			}
			printTag(cmd, *tag)
			return nil
		},
	}
}

func newTagsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a tag and remove it from every task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTag(ctx, c, args[0])
			if err != nil {
				return err
			}
			if err := c.DeleteTag(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", id[:8])
			return nil
		},
	}
}

func newTagsDeleteLastCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-last",
		Short: "Delete the most recently created tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := a.confirm("Delete the most recently created tag?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			tag, deleted, err := a.client().DeleteLastTag(cmd.Context())
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags to delete.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s (%s)\n", tag.Name, shortID(tag.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
