package cll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

type named string

func (n named) Register(root *cli.Command) *cli.Command {
	return Mount(root, &cli.Command{Name: string(n)})
}

func TestRegister(t *testing.T) {
	root := Register(&cli.Command{Name: "adcraft"}, named("build"), named("watch"))

	names := []string{}
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"build", "watch"}, names)
}

func TestEnvWithPrefix(t *testing.T) {
	t.Setenv("ADCRAFT_LOG_LEVEL", "debug")

	env := EnvWithPrefix("ADCRAFT_")
	sources := env("LOG_LEVEL")
	value, ok := sources.Lookup()

	assert.True(t, ok)
	assert.Equal(t, "debug", value)
}
