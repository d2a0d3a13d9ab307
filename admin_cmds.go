package main

import (
	"fed_core/dal"
	"fed_core/logic"
	"fmt"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// directoryRunner runs f against the actor directory of a fully wired, not started, application.
type directoryRunner func(f func(adir logic.IActorDirectory) error) error

func adminCmds(providers fx.Option) []*cobra.Command {
	run := func(f func(adir logic.IActorDirectory) error) error {
		var cmdErr error
		app := fx.New(
			fx.NopLogger,
			providers,
			fx.Invoke(
				func(repo dal.IRepo) { repo.InitUpdateDb() },
				func(adir logic.IActorDirectory) { cmdErr = f(adir) },
			),
		)
		if err := app.Err(); err != nil {
			return err
		}
		return cmdErr
	}
	return newAdminCmds(run)
}

func newAdminCmds(withDirectory directoryRunner) []*cobra.Command {
	return []*cobra.Command{
		createActorCmd(withDirectory),
		createLibraryCmd(withDirectory),
		resolveActorCmd(withDirectory),
	}
}

func createActorCmd(withDirectory directoryRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "create-actor <name>",
		Short: "Create a local user and its actor, with a new key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(func(adir logic.IActorDirectory) error {
				actor, err := adir.CreateLocalActor(args[0])
				if err != nil {
					return err
				}
				cmd.Printf("Created actor %s (user %d)\n", actor.Fid, actor.UserId)
				return nil
			})
		},
	}
}

func createLibraryCmd(withDirectory directoryRunner) *cobra.Command {
	var privacy string
	cmd := &cobra.Command{
		Use:   "create-library <owner> <name>",
		Short: "Create a library owned by a local actor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(func(adir logic.IActorDirectory) error {
				owner, err := adir.GetLocalActor(args[0])
				if err != nil {
					return err
				}
				if owner == nil {
					return fmt.Errorf("no local actor named '%s'", args[0])
				}
				lib, err := adir.CreateLibrary(owner, args[1], privacy)
				if err != nil {
					return err
				}
				cmd.Printf("Created library %s\n", lib.Fid)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&privacy, "privacy", "p", dal.PrivacyMe,
		fmt.Sprintf("who may follow the library: %s, %s or %s", dal.PrivacyMe, dal.PrivacyInstance, dal.PrivacyEveryone))
	return cmd
}

func resolveActorCmd(withDirectory directoryRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-actor <url>",
		Short: "Fetch a remote actor by URL and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(func(adir logic.IActorDirectory) error {
				actor, err := adir.ResolveActor(args[0])
				if err != nil {
					return err
				}
				cmd.Printf("%s\n  inbox: %s\n  delivery inbox: %s\n", actor.Fid, actor.InboxUrl, actor.DeliveryInbox())
				return nil
			})
		},
	}
}
