// Command idkeyctl computes identity and data key IDs and drives an
// in-memory key registry from the command line.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout

	errShowSubsystems = errors.New("subsystems listed")
)

// command is a sub-command that can register itself with the parser.
type command interface {
	flags.Commander
	Register(parser *flags.Parser) error
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func run(args []string) error {
	defer func() {
		if logRotator != nil {
			logRotator.Close()
			logRotator = nil
		}
	}()

	parser, err := newParser()
	if err != nil {
		return err
	}

	_, err = parser.ParseArgs(args)
	var flagErr *flags.Error
	switch {
	case errors.Is(err, errShowSubsystems):
		return nil
	case errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp:
		return nil
	}
	return err
}

func newParser() (*flags.Parser, error) {
	cfg = defaultConfig()
	configured = false

	parser := flags.NewParser(&cfg, flags.Default)
	commands := []command{
		&nameIDCommand{},
		&cleanNameCommand{},
		&vdxfIDCommand{},
		&dataIDCommand{},
		&scriptIDCommand{},
		&newSeedCommand{},
		&shellCommand{},
	}
	for _, c := range commands {
		if err := c.Register(parser); err != nil {
			return nil, err
		}
	}
	return parser, nil
}
