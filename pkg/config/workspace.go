package config

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Workspace lists the projects reachable through "@@project.unit" references.
type Workspace struct {
	// Path is the absolute path of the workspace file.
	Path     string
	Projects []*Project `hcl:"project,block"`
}

// Project is one input tree of a workspace.
type Project struct {
	Name          string `hcl:"name,label"`
	Input         string `hcl:"input"`
	PrimaryLocale string `hcl:"primary_locale,optional"`
}

// LoadWorkspace parses the HCL workspace file at path. Relative project
// inputs are made absolute against the directory of the file.
func LoadWorkspace(path string) (*Workspace, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingWorkspace, err)
	}

	file, diags := hclparse.NewParser().ParseHCLFile(abs)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w %s: %w", ErrParsingWorkspace, path, diags)
	}

	ws := &Workspace{Path: abs}
	if diags := gohcl.DecodeBody(file.Body, nil, ws); diags.HasErrors() {
		return nil, fmt.Errorf("%w %s: %w", ErrParsingWorkspace, path, diags)
	}

	dir := filepath.Dir(abs)
	seen := make(map[string]bool, len(ws.Projects))
	for _, p := range ws.Projects {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateProject, p.Name, path)
		}
		seen[p.Name] = true
		if !filepath.IsAbs(p.Input) {
			p.Input = filepath.Join(dir, p.Input)
		}
	}
	return ws, nil
}

// Project returns the project with the given name.
func (w *Workspace) Project(name string) (*Project, bool) {
	for _, p := range w.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
