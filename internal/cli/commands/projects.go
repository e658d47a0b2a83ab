package commands

import (
	"KeyVault/internal/cli/service"
	"KeyVault/internal/config"
	"context"
	"fmt"
	"strings"
)

type projectsCmd struct{}

func (projectsCmd) Name() string        { return "projects" }
func (projectsCmd) Description() string { return "List projects you own or joined" }
func (projectsCmd) Usage() string       { return "projects" }

func (projectsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	list, err := newVaultService(cfg).ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No projects")
		return nil
	}
	for _, p := range list {
		fmt.Fprintf(Out, "%s  %-24s %-8s %-6s keys=%d role=%s\n", p.ID, p.Name, p.Access, p.Status, p.KeyCount, p.Role)
	}
	return nil
}

type projectNewCmd struct{}

func (projectNewCmd) Name() string        { return "project-new" }
func (projectNewCmd) Description() string { return "Create a project" }
func (projectNewCmd) Usage() string       { return "project-new <name> [personal|team] [description]" }

func (projectNewCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	in := service.NewProject{Name: args[0]}
	if len(args) >= 2 {
		switch args[1] {
		case "personal", "team":
			in.Access = args[1]
		default:
			return ErrUsage
		}
	}
	if len(args) >= 3 {
		in.Description = strings.Join(args[2:], " ")
	}
	p, err := newVaultService(cfg).CreateProject(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:     %s\n", p.ID)
	fmt.Fprintf(Out, "  name:   %s\n", p.Name)
	fmt.Fprintf(Out, "  access: %s\n", p.Access)
	return nil
}

type projectRmCmd struct{}

func (projectRmCmd) Name() string        { return "project-rm" }
func (projectRmCmd) Description() string { return "Delete a project (owner only)" }
func (projectRmCmd) Usage() string       { return "project-rm <project-id>" }

func (projectRmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newVaultService(cfg).DeleteProject(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Project %s deleted\n", args[0])
	return nil
}

func init() {
	RegisterCmd(projectsCmd{})
	RegisterCmd(projectNewCmd{})
	RegisterCmd(projectRmCmd{})
}
