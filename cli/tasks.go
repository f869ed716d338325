package cli

import (
	"fmt"
	"os"
	"strings"

	"tagdo/tagdo/client"
	"tagdo/tagdo/models"
	"tagdo/tagdo/tui"

	"github.com/spf13/cobra"
)

func newTasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "todo"},
		Short:   "Task management commands",
	}

	cmd.AddCommand(newTasksListCmd(a))
	cmd.AddCommand(newTasksAddCmd(a))
	cmd.AddCommand(newTasksQuickCmd(a))
	cmd.AddCommand(newTasksShowCmd(a))
	cmd.AddCommand(newTasksEditCmd(a))
	cmd.AddCommand(newTasksDoneCmd(a, "done", true))
	cmd.AddCommand(newTasksDoneCmd(a, "undo", false))
	cmd.AddCommand(newTasksDeleteCmd(a))
	cmd.AddCommand(newTasksTagCmd(a, "tag"))
	cmd.AddCommand(newTasksTagCmd(a, "untag"))
	return cmd
}

func printTaskLine(cmd *cobra.Command, task models.Task) {
	marker := "?"
	if task.IsDone {
		marker = "✔"
	}
	line := fmt.Sprintf("%s  %s  %s", shortID(task.ID), marker, task.Title)
	if len(task.Tags) > 0 {
		line += "  [" + tagNames(task.Tags) + "]"
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func newTasksListCmd(a *app) *cobra.Command {
	var (
		done, open, plain bool
		tagRef, title     string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if done && open {
				return fmt.Errorf("--done and --open are mutually exclusive")
			}
			ctx := cmd.Context()
			c := a.client()

			filter := client.TaskFilter{Title: title}
			if done || open {
				filter.Completed = &done
			}
			if tagRef != "" {
				tagID, err := a.resolveTag(ctx, c, tagRef)
				if err != nil {
					return err
				}
				filter.TagID = tagID
			}

			tasks, err := c.ListTasks(ctx, filter)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			for _, task := range tasks {
				if plain {
					printTaskLine(cmd, task)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCard(task, 60, false))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&open, "open", false, "only open tasks")
	cmd.Flags().StringVar(&tagRef, "tag", "", "only tasks carrying this tag (id or prefix)")
	cmd.Flags().StringVar(&title, "title", "", "only tasks whose title contains this text")
	cmd.Flags().BoolVar(&plain, "plain", false, "one line per task instead of cards")
	return cmd
}

func newTasksAddCmd(a *app) *cobra.Command {
	var (
		content, iconPath string
		done              bool
		tagRefs           []string
	)

	cmd := &cobra.Command{
		Use:     "add <title>",
		Aliases: []string{"create"},
		Short:   "Create a task",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()

			in := client.TaskInput{
				Title:   strings.Join(args, " "),
				Content: content,
				IsDone:  done,
			}
			if iconPath != "" {
				data, err := os.ReadFile(iconPath)
				if err != nil {
					return fmt.Errorf("read icon: %w", err)
				}
				in.Icon = data
			}
			for _, ref := range tagRefs {
				tagID, err := a.resolveTag(ctx, c, ref)
				if err != nil {
					return err
				}
				in.TagIDs = append(in.TagIDs, tagID)
			}

			task, err := c.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "task body")
	cmd.Flags().BoolVar(&done, "done", false, "create the task already completed")
	cmd.Flags().StringVar(&iconPath, "icon", "", "path to a PNG, JPEG or GIF icon")
	cmd.Flags().StringSliceVarP(&tagRefs, "tag", "t", nil, "tag id or prefix (repeatable)")
	return cmd
}

func newTasksQuickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quick",
		Short: "Add a timestamped todo tagged with every tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.client().QuickAddTask(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
}

func newTasksShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTask(ctx, c, args[0])
			if err != nil {
				return err
			}
			task, err := c.GetTask(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.RenderCard(*task, 60, false))
			fmt.Fprintf(out, "ID:      %s\n", task.ID)
			fmt.Fprintf(out, "Created: %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04:05 -0700"))
			icon := task.Icon()
			if icon.Valid {
				fmt.Fprintf(out, "Icon:    %s %dx%d\n", icon.Format, icon.Width, icon.Height)
			} else {
				fmt.Fprintf(out, "Icon:    %s\n", icon.Symbol)
			}
			if body := tui.RenderMarkdown(task.Content, "auto", 60); body != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, body)
			}
			return nil
		},
	}
}

func newTasksEditCmd(a *app) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title or body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update client.TaskUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("content") {
				update.Content = &content
			}
			if update.Title == nil && update.Content == nil {
				return fmt.Errorf("nothing to change, pass --title and/or --content")
			}

			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTask(ctx, c, args[0])
			if err != nil {
				return err
			}
			task, err := c.UpdateTask(ctx, id, update)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new body")
	return cmd
}

func newTasksDoneCmd(a *app, use string, done bool) *cobra.Command {
	short := "Mark a task completed"
	if !done {
		short = "Mark a task open again"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTask(ctx, c, args[0])
			if err != nil {
				return err
			}
			task, err := c.SetDone(ctx, id, done)
			if err != nil {
				return err
			}
			printTaskLine(cmd, *task)
			return nil
		},
	}
}

func newTasksDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			id, err := a.resolveTask(ctx, c, args[0])
			if err != nil {
				return err
			}
			if err := c.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", id[:8])
			return nil
		},
	}
}

func newTasksTagCmd(a *app, use string) *cobra.Command {
	short := "Attach a tag to a task"
	if use == "untag" {
		short = "Detach a tag from a task"
	}
	return &cobra.Command{
		Use:   use + " <task-id> <tag-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			taskID, err := a.resolveTask(ctx, c, args[0])
			if err != nil {
				return err
			}
			tagID, err := a.resolveTag(ctx, c, args[1])
			if err != nil {
				return err
			}

			var task *models.Task
			if use == "untag" {
				task, err = c.RemoveTagFromTask(ctx, taskID, tagID)
			} else {
				task, err = c.AddTagToTask(ctx, taskID, tagID)
			}
			if err != nil {
				return err
			}
			printTaskLine(cmd, *task)
			return nil
		},
	}
}
