package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/arnewolf/gofat12"
	"github.com/arnewolf/gofat12/shell"
)

func main() {
	app := cli.App{
		Name:      "gofat12",
		Usage:     "Explore a FAT12 disk image interactively",
		ArgsUsage: "IMAGE_FILE",
		Action:    explore,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func explore(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		cli.ShowAppHelp(ctx)
		os.Exit(1)
	}

	imagePath := ctx.Args().Get(0)
	vol, err := gofat12.LoadVolume(imagePath)
	if err != nil {
		log.Printf("failed to load %s: %s", imagePath, err)
		os.Exit(1)
	}

	sh := shell.New(vol, os.Stdin, os.Stdout)
	if err := sh.Run(); err != nil {
		log.Printf("shell exited with error: %s", err)
		os.Exit(1)
	}
	return nil
}
