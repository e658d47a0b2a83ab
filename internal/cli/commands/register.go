package commands

import (
	"KeyVault/internal/config"
	"context"
	"fmt"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string       { return "register <username> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	if err := newAuthService(cfg).Register(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered as %s\n", args[0])
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
