package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/TurboCartPig/pathtracer/scene"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.FrameW = 16
	opts.FrameH = 8
	opts.SamplesPerPixel = 2
	opts.NumBounces = 3
	opts.NumTracers = 3
	opts.Seed = 42
	return opts
}

func renderScene(t *testing.T, opts Options, stages ...PostProcessStage) (*Frame, FrameStats) {
	r, err := NewDefault(scene.SingleSphereScene(1), nil, nil, opts, stages...)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(context.Background()); err != nil {
		t.Fatal(err)
	}

	frame := r.Frame()
	out := &Frame{W: frame.W, H: frame.H, Pix: append([]uint8(nil), frame.Pix...)}
	return out, r.Stats()
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("expected default options to be valid; got %v", err)
	}

	specs := []func(*Options){
		func(o *Options) { o.FrameW = 0 },
		func(o *Options) { o.FrameH = 0 },
		func(o *Options) { o.SamplesPerPixel = 0 },
		func(o *Options) { o.Gamma = 0 },
		func(o *Options) { o.Gamma = -1 },
		func(o *Options) { o.BlockH = o.FrameH + 1 },
	}

	for specIndex, mutate := range specs {
		opts := DefaultOptions()
		mutate(&opts)
		if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("[spec %d] expected ErrInvalidOptions; got %v", specIndex, err)
		}
	}
}

func TestNewDefaultErrors(t *testing.T) {
	if _, err := NewDefault(nil, nil, nil, testOptions()); err != ErrSceneNotDefined {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}
	if _, err := NewDefault(scene.NewScene(), nil, nil, testOptions()); err != ErrSceneNotDefined {
		t.Fatalf("expected ErrSceneNotDefined for empty scene; got %v", err)
	}

	sc := scene.SingleSphereScene(1)
	sc.Camera = nil
	if _, err := NewDefault(sc, nil, nil, testOptions()); err != ErrCameraNotDefined {
		t.Fatalf("expected ErrCameraNotDefined; got %v", err)
	}

	opts := testOptions()
	opts.SamplesPerPixel = 0
	if _, err := NewDefault(scene.SingleSphereScene(1), nil, nil, opts); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions; got %v", err)
	}
}

func TestRenderFrame(t *testing.T) {
	opts := testOptions()
	frame, stats := renderScene(t, opts)

	if len(stats.Tracers) != int(opts.NumTracers) {
		t.Fatalf("expected stats for %d tracers; got %d", opts.NumTracers, len(stats.Tracers))
	}

	var (
		rows    uint32
		rays    uint64
		percent float32
	)
	for _, ts := range stats.Tracers {
		rows += ts.BlockH
		rays += ts.RayCount
		percent += ts.FramePercent
	}
	if rows != opts.FrameH {
		t.Fatalf("expected tracers to render %d rows; got %d", opts.FrameH, rows)
	}
	if rays != stats.RayCount {
		t.Fatalf("expected frame ray count %d to equal the sum of tracer ray counts %d", stats.RayCount, rays)
	}
	if minRays := uint64(opts.FrameW * opts.FrameH * opts.SamplesPerPixel); stats.RayCount < minRays {
		t.Fatalf("expected at least %d rays; got %d", minRays, stats.RayCount)
	}
	if percent < 99.9 || percent > 100.1 {
		t.Fatalf("expected frame percentages to add up to 100; got %f", percent)
	}

	// The top of the frame shows the sky while the bottom shows the
	// yellow ground which absorbs all blue light.
	top := frame.At(opts.FrameW/2, 0)
	bottom := frame.At(opts.FrameW/2, opts.FrameH-1)
	if top.B != 255 {
		t.Fatalf("expected top row to show the sky; got %v", top)
	}
	if bottom.B != 0 {
		t.Fatalf("expected bottom row to show the ground; got %v", bottom)
	}
}

func TestSeededRenderIsDeterministic(t *testing.T) {
	for _, blockH := range []uint32{1, 3} {
		opts := testOptions()
		opts.BlockH = blockH

		opts.NumTracers = 1
		single, _ := renderScene(t, opts)

		opts.NumTracers = 4
		pool, _ := renderScene(t, opts)

		if !bytes.Equal(single.Pix, pool.Pix) {
			t.Fatalf("expected seeded renders with block height %d to match regardless of tracer count", blockH)
		}
	}
}

func TestRenderInterrupted(t *testing.T) {
	r, err := NewDefault(scene.SingleSphereScene(1), nil, nil, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err = r.Render(ctx); err != ErrInterrupted {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}

	// The renderer remains usable after an interrupted frame
	if err = r.Render(context.Background()); err != nil {
		t.Fatalf("expected render to succeed after interruption; got %v", err)
	}
}

func TestRandomSceneRender(t *testing.T) {
	opts := testOptions()
	opts.NumTracers = 0
	opts.BlockH = 0

	r, err := NewDefault(scene.RandomScene(2, rand.New(rand.NewSource(1))), nil, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err = r.Render(context.Background()); err != nil {
		t.Fatal(err)
	}
	if r.Stats().RayCount == 0 {
		t.Fatal("expected rays to be traced")
	}
}

func TestSaveFrameBufferAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	imgFile := filepath.Join(dir, "frame.png")
	thumbFile := filepath.Join(dir, "thumb.png")

	opts := testOptions()
	frame, _ := renderScene(t, opts, SaveFrameBuffer(imgFile), SaveThumbnail(thumbFile, 8))

	img := decodePNG(t, imgFile)
	if b := img.Bounds(); b.Dx() != int(opts.FrameW) || b.Dy() != int(opts.FrameH) {
		t.Fatalf("expected %dx%d image; got %dx%d", opts.FrameW, opts.FrameH, b.Dx(), b.Dy())
	}
	r, g, b, _ := img.At(3, 0).RGBA()
	exp := frame.At(3, 0)
	if uint8(r>>8) != exp.R || uint8(g>>8) != exp.G || uint8(b>>8) != exp.B {
		t.Fatalf("expected saved pixel %v; got (%d, %d, %d)", exp, r>>8, g>>8, b>>8)
	}

	thumb := decodePNG(t, thumbFile)
	if b := thumb.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("expected 8x4 thumbnail; got %dx%d", b.Dx(), b.Dy())
	}

	if err := SaveFrameBuffer(filepath.Join(dir, "frame.bmp"))(context.Background(), frame); err == nil {
		t.Fatal("expected error for unsupported image format")
	}
	if err := SaveThumbnail(thumbFile, 0)(context.Background(), frame); err == nil {
		t.Fatal("expected error for zero thumbnail width")
	}
}

func TestUploadFrame(t *testing.T) {
	frame := NewFrame(4, 2)
	for i := range frame.Pix {
		frame.Pix[i] = uint8(i * 10)
	}

	api := &fakeS3{}
	if err := UploadFrame(api, "renders", "frames/0001.png")(context.Background(), frame); err != nil {
		t.Fatal(err)
	}

	if api.input == nil {
		t.Fatal("expected PutObject to be called")
	}
	if aws.StringValue(api.input.Bucket) != "renders" || aws.StringValue(api.input.Key) != "frames/0001.png" {
		t.Fatalf("unexpected upload target %s/%s", aws.StringValue(api.input.Bucket), aws.StringValue(api.input.Key))
	}
	if aws.StringValue(api.input.ContentType) != "image/png" {
		t.Fatalf("expected image/png content type; got %s", aws.StringValue(api.input.ContentType))
	}
	if aws.Int64Value(api.input.ContentLength) != int64(len(api.body)) {
		t.Fatalf("expected content length %d; got %d", len(api.body), aws.Int64Value(api.input.ContentLength))
	}

	img, err := png.Decode(bytes.NewReader(api.body))
	if err != nil {
		t.Fatal(err)
	}
	r, _, _, a := img.At(1, 1).RGBA()
	if exp := frame.At(1, 1); uint8(r>>8) != exp.R || a>>8 != 255 {
		t.Fatalf("expected uploaded pixel %v; got r=%d a=%d", exp, r>>8, a>>8)
	}

	api.err = errors.New("access denied")
	if err = UploadFrame(api, "renders", "frames/0002.png")(context.Background(), frame); err == nil {
		t.Fatal("expected upload error to be propagated")
	}
}

func TestFrameToImage(t *testing.T) {
	frame := NewFrame(2, 1)
	copy(frame.Pix, []uint8{1, 2, 3, 4, 5, 6})

	img := frame.ToImage()
	exp := []uint8{1, 2, 3, 255, 4, 5, 6, 255}
	if !bytes.Equal(img.Pix, exp) {
		t.Fatalf("expected image pixels %v; got %v", exp, img.Pix)
	}
}

func decodePNG(t *testing.T, imgFile string) image.Image {
	t.Helper()

	f, err := os.Open(imgFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

type fakeS3 struct {
	s3iface.S3API

	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.input = input
	f.body = body
	return &s3.PutObjectOutput{}, nil
}
