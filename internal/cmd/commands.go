package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/internal/cmd/commands/admin"
	"github.com/cloudinary/media-management-go/internal/cmd/commands/config"
	"github.com/cloudinary/media-management-go/internal/cmd/commands/open"
	"github.com/cloudinary/media-management-go/internal/cmd/commands/search"
	"github.com/cloudinary/media-management-go/internal/cmd/commands/upload"
	"github.com/cloudinary/media-management-go/internal/cmd/commands/version"
)

// Commands is the mapping of all available cld commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.New(log, ui)

	Commands = map[string]cli.CommandFactory{
		"config": func() (cli.Command, error) {
			return &config.Command{Command: b}, nil
		},
		"sign": func() (cli.Command, error) {
			return &config.SignCommand{Command: b}, nil
		},
		"ping": func() (cli.Command, error) {
			return &admin.PingCommand{Command: b}, nil
		},
		"assets": func() (cli.Command, error) {
			return &admin.AssetsCommand{Command: b}, nil
		},
		"tags": func() (cli.Command, error) {
			return &admin.TagsCommand{Command: b}, nil
		},
		"usage": func() (cli.Command, error) {
			return &admin.UsageCommand{Command: b}, nil
		},
		"upload": func() (cli.Command, error) {
			return &upload.Command{Command: b}, nil
		},
		"destroy": func() (cli.Command, error) {
			return &upload.DestroyCommand{Command: b}, nil
		},
		"search": func() (cli.Command, error) {
			return &search.Command{Command: b}, nil
		},
		"open": func() (cli.Command, error) {
			return &open.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
