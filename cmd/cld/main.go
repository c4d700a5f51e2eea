package main

import (
	"os"

	"github.com/cloudinary/media-management-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
