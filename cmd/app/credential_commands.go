package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keychain/cmd/app/commands"
	"github.com/allisson/keychain/internal/app"
	vaultUseCase "github.com/allisson/keychain/internal/vault/usecase"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "service",
			Aliases: []string{"s"},
			Usage:   "Service name, or the server with --internet (omit for none)",
		},
		&cli.StringFlag{
			Name:     "account",
			Aliases:  []string{"a"},
			Required: true,
			Usage:    "Account (username) of the entry",
		},
		&cli.BoolFlag{
			Name:  "internet",
			Value: false,
			Usage: "Address an internet credential instead of a generic password",
		},
		formatFlag(),
	}
}

func credentialTarget(cmd *cli.Command) commands.CredentialTarget {
	target := commands.CredentialTarget{
		Account:  cmd.String("account"),
		Internet: cmd.Bool("internet"),
	}
	if cmd.IsSet("service") {
		service := cmd.String("service")
		target.Service = &service
	}
	return target
}

// withDispatcher runs fn against the container's dispatcher and shuts the container down after.
func withDispatcher(fn func(dispatcher *vaultUseCase.Dispatcher) error) error {
	cfg, err := commands.LoadConfig()
	if err != nil {
		return err
	}
	container := app.NewContainer(cfg)
	defer commands.CloseContainer(container, container.Logger())

	dispatcher, err := container.Dispatcher()
	if err != nil {
		return err
	}
	return fn(dispatcher)
}

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set-credential",
			Usage: "Store a password for a service and account",
			Flags: append(targetFlags(), &cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password to store (omit to read one line from stdin)",
			}),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDispatcher(func(dispatcher *vaultUseCase.Dispatcher) error {
					return commands.RunSetCredential(
						ctx,
						dispatcher,
						commands.DefaultIO(),
						credentialTarget(cmd),
						cmd.String("password"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "get-credential",
			Usage: "Print the password stored for a service and account",
			Flags: targetFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDispatcher(func(dispatcher *vaultUseCase.Dispatcher) error {
					return commands.RunGetCredential(
						ctx,
						dispatcher,
						commands.DefaultIO().Writer,
						credentialTarget(cmd),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "reset-credential",
			Usage: "Delete the entry for a service and account",
			Flags: targetFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withDispatcher(func(dispatcher *vaultUseCase.Dispatcher) error {
					return commands.RunResetCredential(
						ctx,
						dispatcher,
						commands.DefaultIO().Writer,
						credentialTarget(cmd),
						cmd.String("format"),
					)
				})
			},
		},
	}
}
