package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/resolver"
	"github.com/dmitrymomot/transkit/pkg/store"
)

// Project is another translation project reachable through
// "@@name.unit" references.
type Project struct {
	Name    string
	Scanner *store.Scanner
}

// scanWorkspace scans every project and returns a workspace over the
// resulting stores.
func scanWorkspace(ctx context.Context, projects ...Project) (resolver.StaticWorkspace, error) {
	ws := make(resolver.StaticWorkspace, len(projects))
	for _, p := range projects {
		st, err := p.Scanner.Scan(ctx)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("%w: %q", ErrWorkspaceScan, p.Name), err)
		}
		ws[p.Name] = st
	}
	return ws, nil
}

// scanProjects rescans the registered workspace projects, leaving out the
// project being compiled.
func (c *Compiler) scanProjects(ctx context.Context) (resolver.StaticWorkspace, error) {
	if len(c.projects) == 0 {
		return nil, nil
	}
	projects := make([]Project, 0, len(c.projects))
	for _, p := range c.projects {
		if c.project != "" && p.Name == c.project {
			continue
		}
		projects = append(projects, p)
	}
	ws, err := scanWorkspace(ctx, projects...)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "Workspace scanned", logger.Count(len(ws)))
	return ws, nil
}

// currentWorkspace returns the projects of the last performed scan, or nil
// when there are none.
func (c *Compiler) currentWorkspace() resolver.Workspace {
	if len(c.scanned) == 0 {
		return nil
	}
	return c.scanned
}
