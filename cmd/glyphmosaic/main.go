package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/wbrown/glyphmosaic"
	"github.com/wbrown/glyphmosaic/imageutil"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := newApp(log).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(log *logrus.Logger) *cli.App {
	return &cli.App{
		Name:      "glyphmosaic",
		Usage:     "Render an image as a mosaic of glyphs sized by brightness",
		Version:   "1.0.0",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "glyph",
				Aliases: []string{"g"},
				Value:   glyphmosaic.DefaultGlyphs,
				Usage:   "the glyphs to use",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "out.png",
				Usage:   "the image output path",
			},
			&cli.StringFlag{
				Name:    "font",
				Aliases: []string{"f"},
				Value:   glyphmosaic.DefaultFont,
				Usage:   "font file, or one of: " + strings.Join(glyphmosaic.EmbeddedFontNames(), ", "),
			},
			&cli.IntFlag{
				Name:  "font-index",
				Usage: "font to use inside a font collection",
			},
			&cli.IntFlag{
				Name:    "tile",
				Aliases: []string{"t"},
				Value:   glyphmosaic.DefaultTileSize,
				Usage:   "the tile size in pixels",
			},
			&cli.BoolFlag{
				Name:  "no-random",
				Usage: "use the glyphs in order instead of at random",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for random glyph selection (default: random)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: runtime.GOMAXPROCS(0),
				Usage: "number of tiles rasterized in parallel",
			},
			&cli.StringFlag{
				Name:  "backend",
				Value: glyphmosaic.BackendOpenType.String(),
				Usage: "font rasterizer: opentype or freetype",
			},
			&cli.StringFlag{
				Name:  "filter",
				Value: imageutil.InterpolationLanczos.String(),
				Usage: "downsampling filter: lanczos, catmullrom, bilinear or nearest",
			},
			&cli.StringFlag{
				Name:  "anchor",
				Value: imageutil.AnchorTopLeft.String(),
				Usage: "region kept when the image is not a whole number of tiles: topleft or center",
			},
			&cli.BoolFlag{
				Name:  "sharpen",
				Usage: "sharpen the brightness grid before rendering",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "increase verbosity",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("please provide the path of the input image", 1)
			}
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			if err := run(c, log); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		},
	}
}

func run(c *cli.Context, log *logrus.Logger) error {
	imageIn := c.Args().First()
	imageOut := c.String("out")

	backend, err := glyphmosaic.ParseBackend(c.String("backend"))
	if err != nil {
		return err
	}
	filter, err := imageutil.ParseInterpolation(c.String("filter"))
	if err != nil {
		return err
	}
	anchor, err := imageutil.ParseAnchor(c.String("anchor"))
	if err != nil {
		return err
	}
	mode := glyphmosaic.ModeRandom
	if c.Bool("no-random") {
		mode = glyphmosaic.ModeOrder
	}

	fontName := c.String("font")
	data, err := glyphmosaic.LoadFontData(fontName)
	if err != nil {
		return err
	}
	rasterizer, err := glyphmosaic.NewRasterizer(backend, data, c.Int("font-index"))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"font": fontName, "backend": backend}).Info("Use font")

	opts := []glyphmosaic.ConverterOption{
		glyphmosaic.WithTileSize(c.Int("tile")),
		glyphmosaic.WithGlyphs(c.String("glyph")),
		glyphmosaic.WithSelectionMode(mode),
		glyphmosaic.WithWorkers(c.Int("workers")),
		glyphmosaic.WithFilter(filter),
		glyphmosaic.WithAnchor(anchor),
		glyphmosaic.WithSharpen(c.Bool("sharpen")),
		glyphmosaic.WithLogger(log),
	}
	if c.IsSet("seed") {
		opts = append(opts, glyphmosaic.WithSeed(c.Uint64("seed")))
	}
	converter := glyphmosaic.NewConverter(rasterizer, opts...)
	if err := converter.Validate(); err != nil {
		return err
	}

	start := time.Now()
	img, err := imageutil.LoadImage(imageIn)
	if err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start)).Infof("Load image '%s'", imageIn)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	start = time.Now()
	out, err := converter.Convert(ctx, img)
	if err != nil {
		return fmt.Errorf("converting %s: %w", imageIn, err)
	}
	log.WithField("elapsed", time.Since(start)).
		Infof("Converted to %dx%d", out.Width(), out.Height())

	// Nothing is written unless the whole conversion succeeded.
	if err := imageutil.SaveImage(out.Gray, imageOut); err != nil {
		return err
	}
	log.Infof("Image saved to '%s'", imageOut)
	return nil
}
