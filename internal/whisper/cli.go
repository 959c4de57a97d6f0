package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fmueller/voxnote/internal/logging"
	"github.com/fmueller/voxnote/internal/platform"
	"go.uber.org/zap"
)

const enginePathEnv = "VOXNOTE_WHISPER_PATH"

// CLIEngine runs a whisper.cpp whisper-cli binary once per request. The
// model file is loaded by the subprocess; callers keep the resolved path.
type CLIEngine struct {
	Executable string
	// OutputDir holds whisper's .txt output; defaults to os.TempDir().
	OutputDir string
	Logger    *zap.Logger
}

func NewCLIEngine(logger *zap.Logger) (*CLIEngine, error) {
	logger = logging.OrNop(logger)

	if override := strings.TrimSpace(os.Getenv(enginePathEnv)); override != "" {
		if err := ensureExecutable(override); err != nil {
			return nil, fmt.Errorf("%s is not executable: %w", enginePathEnv, err)
		}
		return &CLIEngine{Executable: override, Logger: logger}, nil
	}

	if onPath, err := exec.LookPath(engineBinaryName()); err == nil {
		return &CLIEngine{Executable: onPath, Logger: logger}, nil
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve voxnote executable path: %w", err)
	}

	found, err := ResolveEnginePath(self)
	if err != nil {
		return nil, err
	}
	return &CLIEngine{Executable: found, Logger: logger}, nil
}

func ResolveEnginePath(selfExecutable string) (string, error) {
	for _, candidate := range EnginePathCandidates(selfExecutable) {
		if ensureExecutable(candidate) == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("whisper engine not found near %s; install whisper.cpp and put %s on PATH or set %s", selfExecutable, engineBinaryName(), enginePathEnv)
}

func EnginePathCandidates(selfExecutable string) []string {
	binDir := filepath.Dir(selfExecutable)
	name := engineBinaryName()
	rt := platform.CurrentRuntime()

	return []string{
		filepath.Join(binDir, "..", "libexec", "whisper", name),
		filepath.Join(binDir, "libexec", "whisper", name),
		filepath.Join(binDir, "packaging", "whisper", rt.OS+"_"+rt.Arch, name),
		filepath.Join(binDir, name),
	}
}

func (e *CLIEngine) Transcribe(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return "", errors.New("audio path is required")
	}
	if strings.TrimSpace(req.ModelPath) == "" {
		return "", errors.New("model path is required")
	}
	if err := ensureExecutable(e.Executable); err != nil {
		return "", fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	outDir := e.OutputDir
	if outDir == "" {
		outDir = os.TempDir()
	}
	outFile, err := os.CreateTemp(outDir, "voxnote-whisper-*")
	if err != nil {
		return "", fmt.Errorf("reserve whisper output path: %w", err)
	}
	outBase := outFile.Name()
	_ = outFile.Close()
	txtOut := outBase + ".txt"
	defer os.Remove(outBase)
	defer os.Remove(txtOut)

	args := buildArgs(req, outBase)
	cmd := exec.CommandContext(ctx, e.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	e.log().Debug("running whisper engine", zap.String("engine", e.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return "", classifyFailure(e.Executable, err, strings.TrimSpace(stderr.String()))
	}

	content, err := os.ReadFile(txtOut)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func buildArgs(req Request, outBase string) []string {
	args := []string{"-m", req.ModelPath, "-f", req.AudioPath, "-nt", "-otxt", "-of", outBase}

	if lang := strings.TrimSpace(req.Language); lang != "" && lang != "auto" {
		args = append(args, "-l", lang)
	}
	if req.Task == TaskTranslate {
		args = append(args, "-tr")
	}
	if req.NoGPU {
		args = append(args, "-ng")
	}
	return args
}

func classifyFailure(executable string, runErr error, stderr string) error {
	switch {
	case isMissingSharedLibraryError(stderr):
		return fmt.Errorf("whisper engine at %s is missing required shared libraries (%s); rebuild whisper-cli with BUILD_SHARED_LIBS=OFF", executable, stderr)
	case isIllegalInstructionError(stderr) || isIllegalInstructionError(runErr.Error()):
		return fmt.Errorf("whisper engine crashed with an illegal CPU instruction; set %s to a whisper-cli built for this CPU", enginePathEnv)
	case stderr == "":
		return fmt.Errorf("whisper transcribe failed: %w", runErr)
	default:
		return fmt.Errorf("whisper transcribe failed: %w (%s)", runErr, stderr)
	}
}

func (e *CLIEngine) log() *zap.Logger {
	return logging.OrNop(e.Logger)
}

func engineBinaryName() string {
	if runtime.GOOS == "windows" {
		return "whisper-cli.exe"
	}
	return "whisper-cli"
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func isMissingSharedLibraryError(stderr string) bool {
	value := strings.ToLower(stderr)
	for _, pattern := range []string{
		"error while loading shared libraries",
		"cannot open shared object file",
		"dyld: library not loaded",
		"image not found",
	} {
		if strings.Contains(value, pattern) {
			return true
		}
	}
	return false
}

func isIllegalInstructionError(text string) bool {
	return strings.Contains(strings.ToLower(text), "illegal instruction")
}
