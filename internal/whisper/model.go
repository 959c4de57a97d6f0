package whisper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const DefaultModel = "base"

type Model struct {
	Name     string
	FileName string
	URL      string
	SHA256   string
}

type ResolvedModel struct {
	Name          string
	Path          string
	URL           string
	SHA256        string
	NeedsDownload bool
	IsCustomPath  bool
}

const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

var registry = map[string]Model{
	"tiny":     newModel("tiny", "be07e048e1e599ad46341c8d2a135645097a538221678b7acdd1b1919c6e1b21"),
	"base":     newModel("base", "60ed5bc3dd14eea856493d334349b405782ddcaf0028d4b5df4088345fba2efe"),
	"small":    newModel("small", "1be3a9b2063867b937e64e2ec7483364a79917e157fa98c5d94b5c1fffea987b"),
	"medium":   newModel("medium", "6c14d5adee5f86394037b4e4e8b59f1673b6cee10e3cf0b11bbdbee79c156208"),
	"large-v3": newModel("large-v3", "64d182b440b98d5203c4f9bd541544d84c605196c4f7b845dfa11fb23594d1e2"),
}

func newModel(name, sha string) Model {
	file := "ggml-" + name + ".bin"
	return Model{Name: name, FileName: file, URL: modelBaseURL + file, SHA256: sha}
}

func ModelNames() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

func LookupModel(name string) (Model, bool) {
	model, ok := registry[name]
	return model, ok
}

// ResolveModel maps a registry name or a path to a ggml model file on disk.
// Named models live in modelDir and may still need downloading.
func ResolveModel(ref, modelDir string) (ResolvedModel, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultModel
	}

	if model, ok := LookupModel(ref); ok {
		return resolveNamed(model, modelDir)
	}

	if !looksLikePath(ref) {
		return ResolvedModel{}, fmt.Errorf("unknown model %q (known models: %s)", ref, strings.Join(ModelNames(), ", "))
	}

	path := filepath.Clean(ref)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ResolvedModel{}, fmt.Errorf("custom model path does not exist: %s", path)
		}
		return ResolvedModel{}, fmt.Errorf("stat custom model path: %w", err)
	}

	return ResolvedModel{Path: path, IsCustomPath: true}, nil
}

func resolveNamed(model Model, modelDir string) (ResolvedModel, error) {
	if strings.TrimSpace(modelDir) == "" {
		return ResolvedModel{}, errors.New("model directory must not be empty for named model")
	}

	path := filepath.Join(modelDir, model.FileName)
	_, err := os.Stat(path)
	missing := errors.Is(err, os.ErrNotExist)
	if err != nil && !missing {
		return ResolvedModel{}, fmt.Errorf("stat model path: %w", err)
	}

	return ResolvedModel{
		Name:          model.Name,
		Path:          path,
		URL:           model.URL,
		SHA256:        model.SHA256,
		NeedsDownload: missing,
	}, nil
}

func looksLikePath(ref string) bool {
	return strings.ContainsRune(ref, os.PathSeparator) || strings.HasSuffix(strings.ToLower(ref), ".bin")
}
