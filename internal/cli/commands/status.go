package commands

import (
	"KeyVault/internal/config"
	"context"
	"fmt"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show who is logged in" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	me, err := newAuthService(cfg).CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !me.IsLoggedIn || me.User == nil {
		fmt.Fprintln(Out, "Status: anonymous")
		return nil
	}
	fmt.Fprintf(Out, "Status: logged in as %s (id %d)\n", me.User.Username, me.User.ID)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
