package commands

import (
	"KeyVault/internal/config"
	"context"
	"fmt"
	"strconv"
	"strings"
)

type inviteCmd struct{}

func (inviteCmd) Name() string        { return "invite" }
func (inviteCmd) Description() string { return "Invite a user to a team project" }
func (inviteCmd) Usage() string {
	return "invite <project-id> <username> <viewer|editor> [message]"
}

func (inviteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	role := args[2]
	if role != "viewer" && role != "editor" {
		return ErrUsage
	}
	msg := strings.Join(args[3:], " ")
	if err := newVaultService(cfg).Invite(ctx, args[0], args[1], role, msg); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Invited %s as %s\n", args[1], role)
	return nil
}

type invitesCmd struct{}

func (invitesCmd) Name() string        { return "invites" }
func (invitesCmd) Description() string { return "List your pending invites" }
func (invitesCmd) Usage() string       { return "invites" }

func (invitesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	list, err := newVaultService(cfg).ListInvites(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No pending invites")
		return nil
	}
	for _, inv := range list {
		fmt.Fprintf(Out, "%s  %-24s role=%s from=%s", inv.ProjectID, inv.Name, inv.Role, inv.InvitedBy)
		if inv.Message != "" {
			fmt.Fprintf(Out, " %q", inv.Message)
		}
		fmt.Fprintln(Out)
	}
	return nil
}

// respondCmd — accept и reject отличаются только ответом.
type respondCmd struct {
	accept bool
}

func (c respondCmd) Name() string {
	if c.accept {
		return "accept"
	}
	return "reject"
}

func (c respondCmd) Description() string {
	if c.accept {
		return "Accept an invite"
	}
	return "Reject an invite"
}

func (c respondCmd) Usage() string { return c.Name() + " <project-id>" }

func (c respondCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newVaultService(cfg).RespondToInvite(ctx, args[0], c.accept); err != nil {
		return err
	}
	if c.accept {
		fmt.Fprintf(Out, "Joined project %s\n", args[0])
	} else {
		fmt.Fprintf(Out, "Invite to %s rejected\n", args[0])
	}
	return nil
}

type leaveCmd struct{}

func (leaveCmd) Name() string        { return "leave" }
func (leaveCmd) Description() string { return "Leave a project you joined" }
func (leaveCmd) Usage() string       { return "leave <project-id>" }

func (leaveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if err := newVaultService(cfg).LeaveProject(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Left project %s\n", args[0])
	return nil
}

type memberRoleCmd struct{}

func (memberRoleCmd) Name() string        { return "member-role" }
func (memberRoleCmd) Description() string { return "Change a member's role (owner only)" }
func (memberRoleCmd) Usage() string       { return "member-role <project-id> <user-id> <viewer|editor>" }

func (memberRoleCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || userID <= 0 {
		return ErrUsage
	}
	role := args[2]
	if role != "viewer" && role != "editor" {
		return ErrUsage
	}
	if err := newVaultService(cfg).ChangeMemberRole(ctx, args[0], userID, role); err != nil {
		return err
	}
	fmt.Fprintf(Out, "User %d is now %s\n", userID, role)
	return nil
}

type memberRmCmd struct{}

func (memberRmCmd) Name() string        { return "member-rm" }
func (memberRmCmd) Description() string { return "Remove a member or revoke an invite (owner only)" }
func (memberRmCmd) Usage() string       { return "member-rm <project-id> <user-id>" }

func (memberRmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || userID <= 0 {
		return ErrUsage
	}
	if err := newVaultService(cfg).RemoveMember(ctx, args[0], userID); err != nil {
		return err
	}
	fmt.Fprintf(Out, "User %d removed from %s\n", userID, args[0])
	return nil
}

func init() {
	RegisterCmd(inviteCmd{})
	RegisterCmd(invitesCmd{})
	RegisterCmd(respondCmd{accept: true})
	RegisterCmd(respondCmd{accept: false})
	RegisterCmd(leaveCmd{})
	RegisterCmd(memberRoleCmd{})
	RegisterCmd(memberRmCmd{})
}
