package main

import (
	"fmt"
	"image/draw"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevin-cantwell/rlebits"
	"github.com/urfave/cli"
)

var level = new(slog.LevelVar)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if err := run(os.Args, os.Stdout); err != nil {
		exit(err.Error(), 1)
	}
}

var verboseFlag = cli.BoolFlag{
	Name:  "verbose",
	Usage: "Log discarded rows and other debug output.",
}

var convertFlags = []cli.Flag{
	verboseFlag,
	cli.StringFlag{
		Name:  "config,c",
		Usage: "Read settings from the YAML `FILE`. Flags take precedence.",
	},
	cli.StringFlag{
		Name:  "input,i",
		Usage: "`PATH` of the RLE text file.",
		Value: rlebits.DefaultConfig().Input,
	},
	cli.StringFlag{
		Name:  "output,o",
		Usage: "`PATH` of the packed binary file.",
		Value: rlebits.DefaultConfig().Output,
	},
	cli.IntFlag{
		Name:  "progress",
		Usage: "Log progress every `N` frames. 0 disables progress lines.",
		Value: rlebits.DefaultConfig().Progress,
	},
	cli.IntFlag{
		Name:  "max-bytes",
		Usage: "Warn when the output is larger than `SIZE` bytes, the player's read buffer.",
		Value: rlebits.DefaultConfig().MaxBytes,
	},
}

func run(args []string, stdout io.Writer) error {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "rlebits"
	app.Usage = "Packs run-length encoded ASCII animations into 1 bit per cell frames."
	app.UsageText = "1) rlebits [options]\n" +
		/*      */ "   2) rlebits encode [options] [image|gif|mjpeg] > frames.txt"
	app.Writer = stdout
	app.Flags = convertFlags
	app.Before = verbosity
	app.Action = convert
	app.Commands = []cli.Command{
		{
			Name:   "convert",
			Usage:  "Convert the RLE text file to the packed binary format (default).",
			Flags:  convertFlags,
			Before: verbosity,
			Action: convert,
		},
		{
			Name:      "encode",
			Usage:     "Write an image, animated gif or mjpeg stream as RLE text.",
			ArgsUsage: "[file]",
			Before:    verbosity,
			Flags: []cli.Flag{
				verboseFlag,
				cli.StringFlag{
					Name:  "output,o",
					Usage: "Write to `PATH` instead of stdout.",
				},
				cli.Float64Flag{
					Name:  "gamma,g",
					Usage: "`GAMMA` = 1.0 gives the original image. GAMMA less than 1.0 darkens the image and GAMMA greater than 1.0 lightens it.",
					Value: 1.0,
				},
				cli.Float64Flag{
					Name:  "contrast",
					Usage: "`CONTRAST` = 0 gives the original image. CONTRAST = -100 gives solid grey image. CONTRAST = 100 gives maximum contrast.",
				},
				cli.BoolFlag{
					Name:  "invert",
					Usage: "Light pixels become lit cells.",
				},
				cli.BoolFlag{
					Name:  "threshold",
					Usage: "Threshold pixels instead of using Floyd-Steinberg diffusion.",
				},
			},
			Action: encode,
		},
		{
			Name:   "verify",
			Usage:  "Check that the packed binary file matches the RLE text file.",
			Flags:  convertFlags,
			Before: verbosity,
			Action: verify,
		},
	}
	return app.Run(args)
}

func verbosity(c *cli.Context) error {
	if c.Bool("verbose") {
		level.Set(slog.LevelDebug)
	}
	return nil
}

// The path flags are accepted before or after the subcommand. A flag given
// to the subcommand wins over the same flag given to the app.
func config(c *cli.Context) (rlebits.Config, error) {
	cfg := rlebits.DefaultConfig()
	if path, ok := stringFlag(c, "config"); ok && path != "" {
		var err error
		if cfg, err = rlebits.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if v, ok := stringFlag(c, "input"); ok {
		cfg.Input = v
	}
	if v, ok := stringFlag(c, "output"); ok {
		cfg.Output = v
	}
	if v, ok := intFlag(c, "progress"); ok {
		cfg.Progress = v
	}
	if v, ok := intFlag(c, "max-bytes"); ok {
		cfg.MaxBytes = v
	}
	return cfg, nil
}

func stringFlag(c *cli.Context, name string) (string, bool) {
	switch {
	case c.IsSet(name):
		return c.String(name), true
	case c.GlobalIsSet(name):
		return c.GlobalString(name), true
	}
	return "", false
}

func intFlag(c *cli.Context, name string) (int, bool) {
	switch {
	case c.IsSet(name):
		return c.Int(name), true
	case c.GlobalIsSet(name):
		return c.GlobalInt(name), true
	}
	return 0, false
}

func convert(c *cli.Context) error {
	cfg, err := config(c)
	if err != nil {
		return err
	}

	log := slog.Default()
	res, err := rlebits.ConvertFile(cfg.Input, cfg.Output,
		rlebits.WithLogger(log),
		rlebits.WithProgress(cfg.Progress),
	)
	if err != nil {
		return err
	}

	s := res.Stats
	log.Info("done",
		"bytes", len(res.Data),
		"frames", res.Frames,
		"bytes_per_frame", res.BytesPerFrame(),
	)
	if s.Ignored+s.Discarded+s.Implicit+s.Dropped > 0 {
		log.Info("input irregularities",
			"ignored_lines", s.Ignored,
			"discarded_rows", s.Discarded,
			"implicit_frames", s.Implicit,
			"dropped_tokens", s.Dropped,
		)
	}
	if cfg.MaxBytes > 0 && len(res.Data) > cfg.MaxBytes {
		log.Warn("output exceeds player buffer; trailing frames will not play",
			"bytes", len(res.Data),
			"max_bytes", cfg.MaxBytes,
			"playable_frames", cfg.MaxFrames(),
		)
	}
	return nil
}

func encode(c *cli.Context) error {
	var reader io.Reader = os.Stdin
	name := c.Args().First()
	if name != "" {
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()
		reader = file
	}

	opts := []rlebits.ImageOpt{
		rlebits.WithGamma(c.Float64("gamma")),
		rlebits.WithContrast(c.Float64("contrast")),
	}
	if c.Bool("invert") {
		opts = append(opts, rlebits.WithInvertedColors())
	}
	if c.Bool("threshold") {
		opts = append(opts, rlebits.WithDrawer(draw.Src))
	}

	var frames []*rlebits.Frame
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gif":
		frames, err = rlebits.DecodeGIF(reader, opts...)
	case ".mjpeg", ".mjpg":
		frames, err = rlebits.DecodeMJPEG(reader, opts...)
	default:
		var f *rlebits.Frame
		if f, err = rlebits.DecodeImage(reader, opts...); err == nil {
			frames = append(frames, f)
		}
	}
	if err != nil {
		return err
	}

	var w io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	if err := rlebits.NewRLEEncoder(w).Encode(frames...); err != nil {
		return err
	}
	slog.Info("encoded", "frames", len(frames))
	return nil
}

func verify(c *cli.Context) error {
	cfg, err := config(c)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	frames, err := rlebits.Decode(in)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		return err
	}
	if i := rlebits.FirstMismatch(frames, data); i >= 0 {
		return fmt.Errorf("%s: frame %d does not match %s (%d frames, %d bytes)",
			cfg.Output, i, cfg.Input, len(frames), len(data))
	}
	slog.Info("verified", "frames", len(frames), "bytes", len(data))
	return nil
}

func exit(msg string, code int) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}
