// Package cll provides utilities for building CLI applications with urfave/cli/v3.
package cll

import "github.com/urfave/cli/v3"

// Registerable is a command, or group of commands, that mounts itself onto
// a root command.
type Registerable interface {
	Register(*cli.Command) *cli.Command
}

// Register applies each Registerable to root in order.
//
//	root := &cli.Command{Name: "adcraft"}
//	root = cll.Register(root, buildCmd, watchCmd)
func Register(root *cli.Command, subs ...Registerable) *cli.Command {
	for _, s := range subs {
		root = s.Register(root)
	}

	return root
}

// EnvWithPrefix returns a function building env var sources that share a
// prefix, so env("CONFIG_PATH") reads ADCRAFT_CONFIG_PATH for the prefix
// "ADCRAFT_".
func EnvWithPrefix(prefix string) func(strs ...string) cli.ValueSourceChain {
	return func(strs ...string) cli.ValueSourceChain {
		withPrefix := make([]string, len(strs))

		for i, str := range strs {
			withPrefix[i] = prefix + str
		}

		return cli.EnvVars(withPrefix...)
	}
}

// Mount appends cmds to root's subcommands and returns root, the body every
// Registerable ends with.
func Mount(root *cli.Command, cmds ...*cli.Command) *cli.Command {
	root.Commands = append(root.Commands, cmds...)
	return root
}
