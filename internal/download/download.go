package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fmueller/voxnote/internal/logging"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const userAgent = "voxnote/1"

var checksumPattern = regexp.MustCompile(`(?i)\b([a-f0-9]{64})\b`)

type Options struct {
	URL            string
	Destination    string
	ExpectedSHA256 string
	ChecksumURL    string
	Attempts       int
	NoProgress     bool
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

func (o *Options) applyDefaults() error {
	if o.URL == "" {
		return errors.New("download URL is required")
	}
	if o.Destination == "" {
		return errors.New("destination path is required")
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 10 * time.Minute}
	}
	o.Logger = logging.OrNop(o.Logger)
	return nil
}

// File fetches opts.URL into opts.Destination through a .part file, verifying
// the sha256 before the rename so a partial or corrupt model never lands at
// the final path.
func File(ctx context.Context, opts Options) error {
	if err := opts.applyDefaults(); err != nil {
		return err
	}

	expected := strings.ToLower(strings.TrimSpace(opts.ExpectedSHA256))
	if expected == "" && opts.ChecksumURL != "" {
		resolved, err := ResolveExpectedChecksum(ctx, opts.ChecksumURL, filepath.Base(opts.Destination), opts.HTTPClient)
		if err != nil {
			return fmt.Errorf("fetch checksum: %w", err)
		}
		expected = resolved
	}

	if err := os.MkdirAll(filepath.Dir(opts.Destination), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	var err error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		if attempt > 1 {
			opts.Logger.Warn("retrying model download", zap.Int("attempt", attempt), zap.Int("max", opts.Attempts), zap.String("url", opts.URL))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
		}

		if err = fetch(ctx, opts, expected); err == nil {
			return nil
		}
	}
	return err
}

func ResolveExpectedChecksum(ctx context.Context, checksumURL, fileName string, client *http.Client) (string, error) {
	if strings.TrimSpace(checksumURL) == "" {
		return "", errors.New("checksum URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	body, err := get(ctx, client, checksumURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return ParseChecksum(content, fileName)
}

// ParseChecksum prefers the line naming fileName and falls back to the first
// sha256-looking token.
func ParseChecksum(content []byte, fileName string) (string, error) {
	lines := strings.Split(string(content), "\n")

	if fileName != "" {
		for _, line := range lines {
			if !strings.Contains(line, fileName) {
				continue
			}
			if sum := checksumFromLine(line); sum != "" {
				return sum, nil
			}
		}
	}

	for _, line := range lines {
		if sum := checksumFromLine(line); sum != "" {
			return sum, nil
		}
	}
	return "", errors.New("sha256 checksum not found")
}

func VerifyFileChecksum(path, expectedSHA256 string) error {
	expected := strings.ToLower(strings.TrimSpace(expectedSHA256))
	if expected == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash file: %w", err)
	}

	if actual := hex.EncodeToString(h.Sum(nil)); actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func checksumFromLine(line string) string {
	match := checksumPattern.FindStringSubmatch(line)
	if len(match) < 2 {
		return ""
	}
	return strings.ToLower(match[1])
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func fetch(ctx context.Context, opts Options, expected string) (err error) {
	partPath := opts.Destination + ".part"
	_ = os.Remove(partPath)

	part, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = part.Close()
		if err != nil {
			_ = os.Remove(partPath)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	hash := sha256.New()
	sinks := []io.Writer{part, hash}
	bar := progressFor(opts.NoProgress, resp.ContentLength)
	if bar != nil {
		sinks = append(sinks, bar)
	}

	if _, err = io.Copy(io.MultiWriter(sinks...), resp.Body); err != nil {
		return fmt.Errorf("download body: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err = part.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if actual := hex.EncodeToString(hash.Sum(nil)); expected != "" && actual != expected {
		err = fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
		return err
	}

	if err = part.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(partPath, opts.Destination); err != nil {
		return fmt.Errorf("move temp file into destination: %w", err)
	}
	return nil
}

func progressFor(noProgress bool, contentLength int64) *progressbar.ProgressBar {
	if noProgress || contentLength <= 0 || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}

	return progressbar.NewOptions64(
		contentLength,
		progressbar.OptionSetDescription("downloading model"),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}
