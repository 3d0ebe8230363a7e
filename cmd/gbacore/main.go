// Command gbacore is the headless runner exercising the engine's consumer
// surface from the command line: load a BIOS and ROM, run a fixed number
// of frames, and optionally persist backup media to a save file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"gbacore/internal/gba"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbacore"
	app.Usage = "gbacore --bios <path> --rom <path> [options]"
	app.Description = "Headless GBA core runner"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "bios", Usage: "path to the GBA BIOS image"},
		cli.StringFlag{Name: "rom", Usage: "path to the cartridge ROM image"},
		cli.StringFlag{Name: "save", Usage: "path to the backup save file (read at start, written at exit)"},
		cli.StringFlag{Name: "log-dir", Usage: "directory to additionally write gba.log into"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn, or error"},
		cli.IntFlag{Name: "frames", Value: 60, Usage: "number of frames to run before exiting"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbacore exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	biosPath := c.String("bios")
	romPath := c.String("rom")
	if biosPath == "" || romPath == "" {
		cli.ShowAppHelp(c)
		return fmt.Errorf("both --bios and --rom are required")
	}

	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	savePath := c.String("save")
	machine, err := gba.Initialize(gba.Config{
		BIOSPath: biosPath,
		ROMPath:  romPath,
		SavePath: savePath,
		LogDir:   c.String("log-dir"),
		LogLevel: level,
	})
	if err != nil {
		return fmt.Errorf("initializing core: %w", err)
	}
	defer machine.PowerOff(savePath)

	frames := c.Int("frames")
	for i := 0; i < frames; i++ {
		machine.RunFrame()
	}

	slog.Info("run complete", "frames", machine.GetFPSCounter())
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
