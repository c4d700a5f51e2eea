package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/cloudinary/media-management-go/internal/version"
)

const usage = `Usage: %s [-version] [-help] <command> [<args>]

  Manages the assets of a Cloudinary product environment from the command
  line. Credentials come from -config, -url or the CLOUDINARY_URL
  environment variable, in that order. Run "%s <command> -help" for the
  options of a command.
`

// commandGroups orders the help output. Commands missing from every group
// are listed under "Other".
var commandGroups = []struct {
	title    string
	commands []string
}{
	{title: "Assets", commands: []string{"assets", "tags", "upload", "destroy", "search", "open"}},
	{title: "Account", commands: []string{"ping", "usage"}},
	{title: "Configuration", commands: []string{"config", "sign", "version"}},
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	name := filepath.Base(args[0])

	log := hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	if len(args) == 2 && (args[1] == "-version" || args[1] == "-v") {
		args = []string{args[0], "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	initCommands(log, ui)

	c := &cli.CLI{
		Name:       name,
		Args:       args[1:],
		Version:    version.Version,
		Commands:   Commands,
		HelpFunc:   helpFunc(name),
		HelpWriter: os.Stdout,
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}

// helpFunc lists the commands by group with their synopses.
func helpFunc(name string) cli.HelpFunc {
	return func(commands map[string]cli.CommandFactory) string {
		var b strings.Builder
		fmt.Fprintf(&b, usage, name, name)

		listed := map[string]bool{}
		writeGroup := func(title string, names []string) {
			var lines []string
			for _, n := range names {
				factory, ok := commands[n]
				if !ok {
					continue
				}
				listed[n] = true
				synopsis := ""
				if c, err := factory(); err == nil {
					synopsis = c.Synopsis()
				}
				lines = append(lines, fmt.Sprintf("    %-10s %s", n, synopsis))
			}
			if len(lines) == 0 {
				return
			}
			fmt.Fprintf(&b, "\n%s commands:\n%s\n", title, strings.Join(lines, "\n"))
		}

		for _, g := range commandGroups {
			writeGroup(g.title, g.commands)
		}

		var rest []string
		for n := range commands {
			if !listed[n] {
				rest = append(rest, n)
			}
		}
		sort.Strings(rest)
		writeGroup("Other", rest)

		return b.String()
	}
}
