package commands

import (
	"KeyVault/internal/cli/model"
	"KeyVault/internal/config"
	"context"
	"fmt"
	"strconv"
	"time"
)

type activityCmd struct{}

func (activityCmd) Name() string { return "activity" }
func (activityCmd) Description() string {
	return "Show project activity, or your recent actions without a project"
}
func (activityCmd) Usage() string { return "activity [<project-id> | -n <limit>]" }

func (activityCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	svc := newVaultService(cfg)
	var (
		list []model.Activity
		err  error
	)
	switch {
	case len(args) == 0:
		list, err = svc.RecentActivity(ctx, 0)
	case len(args) == 2 && args[0] == "-n":
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil || n <= 0 {
			return ErrUsage
		}
		list, err = svc.RecentActivity(ctx, n)
	case len(args) == 1:
		list, err = svc.ProjectActivity(ctx, args[0])
	default:
		return ErrUsage
	}
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No activity")
		return nil
	}
	for _, a := range list {
		line := a.Timestamp.Local().Format(time.DateTime) + "  "
		if a.ProjectName != "" {
			line += "[" + a.ProjectName + "] "
		}
		fmt.Fprintln(Out, line+a.Message)
	}
	return nil
}

func init() { RegisterCmd(activityCmd{}) }
