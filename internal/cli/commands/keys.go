package commands

import (
	"KeyVault/internal/cli/service"
	"KeyVault/internal/config"
	"context"
	"fmt"
	"strings"
)

type keysCmd struct{}

func (keysCmd) Name() string        { return "keys" }
func (keysCmd) Description() string { return "Show project keys with values" }
func (keysCmd) Usage() string       { return "keys <project-id>" }

func (keysCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	list, err := newVaultService(cfg).ListKeys(ctx, args[0])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No keys")
		return nil
	}
	for _, k := range list {
		value := k.Value
		if k.Inaccessible {
			value = "<inaccessible>"
		}
		fmt.Fprintf(Out, "%s  %-20s %-10s %s=%s\n", k.ID, k.Name, k.Type, k.Label, value)
	}
	return nil
}

type keyAddCmd struct{}

func (keyAddCmd) Name() string        { return "key-add" }
func (keyAddCmd) Description() string { return "Add a key to a project" }
func (keyAddCmd) Usage() string {
	return "key-add <project-id> <name> <key> <value> [type] [description]"
}

func (keyAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 4 {
		return ErrUsage
	}
	in := service.NewKey{Name: args[1], Label: args[2], Value: args[3]}
	if len(args) >= 5 {
		in.Type = args[4]
	}
	if len(args) >= 6 {
		in.Description = strings.Join(args[5:], " ")
	}
	k, err := newVaultService(cfg).AddKey(ctx, args[0], in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:   %s\n", k.ID)
	fmt.Fprintf(Out, "  name: %s\n", k.Name)
	fmt.Fprintf(Out, "  type: %s\n", k.Type)
	return nil
}

type keyEditCmd struct{}

func (keyEditCmd) Name() string        { return "key-edit" }
func (keyEditCmd) Description() string { return "Change key fields (name, key, value, type, description)" }
func (keyEditCmd) Usage() string {
	return "key-edit <project-id> <key-id> <field>=<value> [<field>=<value> ...]"
}

func (keyEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	var in service.KeyUpdate
	for _, kv := range args[2:] {
		field, value, ok := strings.Cut(kv, "=")
		if !ok {
			return ErrUsage
		}
		v := value
		switch field {
		case "name":
			in.Name = &v
		case "key":
			in.Label = &v
		case "value":
			in.Value = &v
		case "type":
			in.Type = &v
		case "description":
			in.Description = &v
		default:
			return ErrUsage
		}
	}
	k, err := newVaultService(cfg).UpdateKey(ctx, args[0], args[1], in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Updated:")
	fmt.Fprintf(Out, "  id:   %s\n", k.ID)
	fmt.Fprintf(Out, "  name: %s\n", k.Name)
	fmt.Fprintf(Out, "  type: %s\n", k.Type)
	return nil
}

type keyRmCmd struct{}

func (keyRmCmd) Name() string        { return "key-rm" }
func (keyRmCmd) Description() string { return "Delete a key from a project" }
func (keyRmCmd) Usage() string       { return "key-rm <project-id> <key-id>" }

func (keyRmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	if err := newVaultService(cfg).DeleteKey(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Key %s deleted\n", args[1])
	return nil
}

func init() {
	RegisterCmd(keysCmd{})
	RegisterCmd(keyAddCmd{})
	RegisterCmd(keyEditCmd{})
	RegisterCmd(keyRmCmd{})
}
