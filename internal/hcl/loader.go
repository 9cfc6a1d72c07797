// Package hcl loads scene manifest files and translates them into the
// format-agnostic config model. Manifests only override the parts of the
// built-in default scene they mention.
package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/synthgrid/internal/config"
	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/fsutil"
)

// Loader parses .hcl scene manifests.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads the manifest at path (a single .hcl file or a directory of
// them), decodes it, and translates it into a validated config model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := l.collect(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl scene manifest found at '%s'", path)
	}
	logger.Debug("Scene manifest files discovered.", "count", len(files))

	var parsed []*hcl.File
	for _, file := range files {
		f, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse '%s': %w", file, diags)
		}
		parsed = append(parsed, f)
	}

	var sc SceneConfig
	if diags := gohcl.DecodeBody(hcl.MergeFiles(parsed), nil, &sc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scene manifest: %w", diags)
	}

	model, err := translate(&sc)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene manifest: %w", err)
	}

	logger.Debug("Scene manifest loaded.", "classes", len(model.Classes))
	return model, nil
}

// collect resolves path to the list of manifest files to parse.
func (l *Loader) collect(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scene manifest path '%s': %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return fsutil.FindFilesByExtension(path, ".hcl")
}
