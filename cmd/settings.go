package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/TurboCartPig/pathtracer/asset"
	"github.com/TurboCartPig/pathtracer/renderer"
	"github.com/TurboCartPig/pathtracer/tracer/cpu"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// Render settings as stored in a settings file.
type Settings struct {
	// Output image size (width, height)
	Resolution [2]uint32 `toml:"resolution"`

	// Samples per pixel
	Samples uint32 `toml:"samples"`

	// Max bounces of a single primary ray
	MaxBounces uint32 `toml:"max_bounces"`

	Gamma float32 `toml:"gamma"`

	// Optional tracer pool and block settings
	Tracers     uint32 `toml:"tracers"`
	BlockHeight uint32 `toml:"block_height"`
}

func defaultSettings() Settings {
	opts := renderer.DefaultOptions()
	return Settings{
		Resolution:  [2]uint32{opts.FrameW, opts.FrameH},
		Samples:     opts.SamplesPerPixel,
		MaxBounces:  opts.NumBounces,
		Gamma:       opts.Gamma,
		BlockHeight: opts.BlockH,
	}
}

// Load settings from a local TOML file. Keys missing from the file keep
// their default value and a missing file yields the defaults.
func LoadSettings(settingsFile string) (Settings, error) {
	return loadSettings(context.Background(), &asset.Opener{}, settingsFile)
}

// Load settings from a local path, an http(s) URL or an s3://bucket/key
// location.
func loadSettings(ctx context.Context, opener *asset.Opener, location string) (Settings, error) {
	settings := defaultSettings()
	if location == "" {
		return settings, nil
	}

	res, err := opener.Open(ctx, location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Infof("settings file %s not found; using defaults", location)
			return settings, nil
		}
		return Settings{}, fmt.Errorf("could not open settings file %s: %w", location, err)
	}
	defer res.Close()

	md, err := toml.NewDecoder(res).Decode(&settings)
	if err != nil {
		return Settings{}, fmt.Errorf("could not parse settings file %s: %w", res.Path(), err)
	}

	for _, key := range md.Undecoded() {
		logger.Warningf("ignoring unknown settings key %q in %s", key.String(), res.Path())
	}

	return settings, nil
}

// Convert settings into render options.
func (s Settings) Options() renderer.Options {
	opts := renderer.DefaultOptions()
	opts.FrameW = s.Resolution[0]
	opts.FrameH = s.Resolution[1]
	opts.SamplesPerPixel = s.Samples
	opts.NumBounces = s.MaxBounces
	opts.Gamma = s.Gamma
	opts.NumTracers = s.Tracers
	opts.BlockH = s.BlockHeight
	return opts
}

// Build the render options from the settings file and override them with
// any explicitly set command line flags.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	location := ctx.String("settings")
	opener := &asset.Opener{}
	if strings.HasPrefix(location, "s3://") {
		api, err := newS3Client(LoadS3Config(ctx.String("env")))
		if err != nil {
			return renderer.Options{}, err
		}
		opener.S3 = api
	}

	settings, err := loadSettings(context.Background(), opener, location)
	if err != nil {
		return renderer.Options{}, err
	}

	opts := settings.Options()
	if ctx.IsSet("width") {
		opts.FrameW = uint32(ctx.Int("width"))
	}
	if ctx.IsSet("height") {
		opts.FrameH = uint32(ctx.Int("height"))
	}
	if ctx.IsSet("spp") {
		opts.SamplesPerPixel = uint32(ctx.Int("spp"))
	}
	if ctx.IsSet("bounces") {
		opts.NumBounces = uint32(ctx.Int("bounces"))
	}
	if ctx.IsSet("gamma") {
		opts.Gamma = float32(ctx.Float64("gamma"))
	}
	if ctx.IsSet("tracers") {
		opts.NumTracers = uint32(ctx.Int("tracers"))
	}
	if ctx.IsSet("block-height") {
		opts.BlockH = uint32(ctx.Int("block-height"))
	}
	opts.Seed = ctx.Int64("seed")

	switch ctx.String("debug") {
	case "":
	case "normals":
		opts.Debug = cpu.PrimaryRayIntersectionNormals
	case "depth":
		opts.Debug = cpu.PrimaryRayIntersectionDepth
	default:
		return renderer.Options{}, fmt.Errorf("unknown debug mode %q", ctx.String("debug"))
	}

	return opts, opts.Validate()
}

// Object store settings for uploading frames.
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
}

// Read the object store settings from the environment. If envFile exists
// it is loaded first; variables already set in the environment win.
func LoadS3Config(envFile string) S3Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warningf("could not load %s: %s", envFile, err)
		}
	}

	return S3Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    os.Getenv("S3_REGION"),
		Bucket:    os.Getenv("S3_BUCKET"),
	}
}

// Create an S3 client. Static credentials are used when configured;
// otherwise the default AWS credential chain applies.
func newS3Client(cfg S3Config) (s3iface.S3API, error) {
	awsCfg := &aws.Config{
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.Region != "" {
		awsCfg.Region = aws.String(cfg.Region)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("could not create S3 session: %w", err)
	}
	return s3.New(sess), nil
}
