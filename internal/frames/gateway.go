package frames

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"slowmovie/internal/failure"
)

// Gateway invokes ffprobe and ffmpeg.
type Gateway struct {
	ffprobe string
	ffmpeg  string
	timeout time.Duration
	exec    Executor
	fs      afero.Fs
}

// Option configures the gateway.
type Option func(*Gateway)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(g *Gateway) {
		if exec != nil {
			g.exec = exec
		}
	}
}

// WithFs sets the filesystem used to verify extracted frames.
func WithFs(fsys afero.Fs) Option {
	return func(g *Gateway) {
		if fsys != nil {
			g.fs = fsys
		}
	}
}

// New constructs a gateway for the given tool binaries. A non-positive
// timeout disables the per-call deadline.
func New(ffprobe, ffmpeg string, timeoutSeconds int, opts ...Option) *Gateway {
	g := &Gateway{
		ffprobe: defaultString(ffprobe, "ffprobe"),
		ffmpeg:  defaultString(ffmpeg, "ffmpeg"),
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		fs:      afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FFprobe returns the ffprobe binary the gateway invokes.
func (g *Gateway) FFprobe() string { return g.ffprobe }

// FFmpeg returns the ffmpeg binary the gateway invokes.
func (g *Gateway) FFmpeg() string { return g.ffmpeg }

// QueryFrameCount returns the number of packets in the movie's first video
// stream. ffprobe must print a single line of digits.
func (g *Gateway) QueryFrameCount(ctx context.Context, movie string) (uint64, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		movie,
	}
	stdout, stderr, err := g.run(ctx, g.ffprobe, args)
	if err != nil {
		return 0, classify(g.ffprobe, "frame count", err, stderr)
	}
	raw := strings.TrimSpace(string(stdout))
	count, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, failure.Wrap(failure.ErrFrameCountParse, "ffprobe", fmt.Sprintf("unexpected output %q", truncate(raw)), err)
	}
	return count, nil
}

// ExtractFrame writes frame index of movie to out as a PNG. out must not
// exist beforehand; ffmpeg is told to overwrite regardless.
func (g *Gateway) ExtractFrame(ctx context.Context, movie string, index uint64, out string) error {
	args := []string{
		"-v", "error",
		"-y",
		"-i", movie,
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, index),
		"-vsync", "0",
		"-vframes", "1",
		"-f", "image2",
		out,
	}
	_, stderr, err := g.run(ctx, g.ffmpeg, args)
	if err != nil {
		return classify(g.ffmpeg, "extract frame", err, stderr)
	}
	info, err := g.fs.Stat(out)
	if err != nil || info.Size() == 0 {
		return failure.Wrap(failure.ErrToolExecution, "ffmpeg",
			fmt.Sprintf("frame %d not written to %s (index beyond the last decodable frame?)", index, out), err)
	}
	return nil
}

func (g *Gateway) run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.exec.Run(ctx, binary, args)
}

func classify(binary, operation string, err error, stderr []byte) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return failure.Wrap(failure.ErrToolMissing, binary, "not found", err)
	}
	detail := operation
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		detail = operation + ": " + truncate(msg)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail = fmt.Sprintf("%s (exit %d)", detail, exitErr.ExitCode())
	}
	return failure.Wrap(failure.ErrToolExecution, binary, detail, err)
}

func truncate(s string) string {
	const limit = 512
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
