// Package cli is the cobra command tree of the tagdo terminal client.
package cli

import (
	"context"
	"fmt"
	"strings"

	"tagdo/tagdo/client"
	"tagdo/tagdo/models"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type app struct {
	configFile string
	settings   Settings
	confirm    func(message string) (bool, error)
}

func surveyConfirm(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

func (a *app) client() *client.Client {
	return client.New(a.settings.Server, a.settings.Token)
}

// NewRootCmd builds the tagdo command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{confirm: surveyConfirm})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "tagdo",
		Short:        "Tagged to-do list client",
		Long:         "Manage tasks and tags on a tagdo server from the terminal.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(a.configFile)
			if err != nil {
				return err
			}
			for _, name := range []string{"server", "token"} {
				if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			a.settings, err = loadSettings(v)
			return err
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default $HOME/.tagdo.yaml)")
	root.PersistentFlags().String("server", client.DefaultServer, "tagdo server URL")
	root.PersistentFlags().String("token", "", "bearer token for servers with AUTH_SECRET set")

	root.AddCommand(newTasksCmd(a))
	root.AddCommand(newTagsCmd(a))
	root.AddCommand(newSeedCmd(a))
	root.AddCommand(newTokenCmd())
	root.AddCommand(newTUICmd(a))

	return root
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// resolveID accepts a full id or a unique prefix of one of candidates.
func resolveID(kind, ref string, candidates []uuid.UUID) (string, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id.String(), nil
	}
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}

	var matches []uuid.UUID
	for _, id := range candidates {
		if strings.HasPrefix(id.String(), ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s matches %q", kind, ref)
	case 1:
		return matches[0].String(), nil
	default:
		return "", fmt.Errorf("%q matches %d %ss, use more characters", ref, len(matches), kind)
	}
}

func (a *app) resolveTask(ctx context.Context, c *client.Client, ref string) (string, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id.String(), nil
	}
	tasks, err := c.ListTasks(ctx, client.TaskFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return resolveID("task", ref, ids)
}

func (a *app) resolveTag(ctx context.Context, c *client.Client, ref string) (string, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id.String(), nil
	}
	tags, err := c.ListTags(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return resolveID("tag", ref, ids)
}

func tagNames(tags []models.Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ", ")
}
