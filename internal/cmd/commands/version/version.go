package version

import (
	"fmt"
	"runtime"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: cld version`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("cld v%s (%s/%s)", version.Version, runtime.GOOS, runtime.GOARCH))
	return 0
}
