// voxtool is a CLI utility for inspecting MagicaVoxel .vox models.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/voxel-viewer/internal/config"
	"github.com/Faultbox/voxel-viewer/internal/logger"
)

func main() {
	config.ParseFlags()
	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "mesh":
		err = cmdMesh(args)
	case "preview":
		err = cmdPreview(cfg, args)
	case "palette":
		err = cmdPalette(args)
	case "props":
		err = cmdProps(args)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println(`voxtool - MagicaVoxel .vox model utility

Usage:
  voxtool [global options] <command> [options]

Global options:
  -config <file>    Config file (default ./voxtool.yaml, then user config dir)
  -debug            Enable debug logging
  -log-file <file>  Also write logs to a rotated file
  -workers <n>      Models loaded in parallel by info

Commands:
  info <file.vox>...                 Show size, chunks, colors and warnings
  mesh <file.vox>                    Triangulate and show mesh statistics
  preview <file.vox> [output]        Render an orthographic preview image
  palette <file.vox> [output]        Write the palette as a 256x1 strip
  props <file.vox>                   Show or edit the model's property sidecar

Examples:
  voxtool info chr_knight.vox monu1.vox
  voxtool mesh -n 4 chr_knight.vox
  voxtool preview -view top -scale 16 chr_knight.vox knight_top.webp
  voxtool props -name Knight -rotation 0,1,0 -save chr_knight.vox`)
}
