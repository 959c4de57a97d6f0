package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fmueller/voxnote/internal/logging"
	"go.uber.org/zap"
)

const (
	ffmpegPathEnv = "VOXNOTE_FFMPEG_PATH"

	whisperSampleRate = 16000
)

var ErrConverterUnavailable = errors.New("ffmpeg not found; install ffmpeg or set " + ffmpegPathEnv)

// Converter normalises compressed uploads into the 16 kHz mono PCM WAV that
// whisper-cli decodes.
type Converter struct {
	Executable string
	Logger     *zap.Logger
}

func NewConverter(logger *zap.Logger) (*Converter, error) {
	logger = logging.OrNop(logger)

	if override := strings.TrimSpace(os.Getenv(ffmpegPathEnv)); override != "" {
		return &Converter{Executable: override, Logger: logger}, nil
	}

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, ErrConverterUnavailable
	}
	return &Converter{Executable: path, Logger: logger}, nil
}

func (c *Converter) ToWAV(ctx context.Context, src, dst string) error {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return errors.New("source and destination paths are required")
	}

	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-ac", "1",
		"-ar", fmt.Sprint(whisperSampleRate),
		"-c:a", "pcm_s16le",
		dst,
	}

	cmd := exec.CommandContext(ctx, c.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	c.log().Debug("converting audio", zap.String("ffmpeg", c.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("decode %s: %w (%s)", src, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (c *Converter) log() *zap.Logger {
	return logging.OrNop(c.Logger)
}
