// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/container"
)

// executeCreateContainer allocates the container and runs its body with
// it active, then restores the previously active container. A failing
// body removes the new container.
func (e *Executor) executeCreateContainer(ctx context.Context, node *ast.CreateContainer) error {
	manager := e.state.Containers
	options := container.OptionsFrom(node.Options)
	if _, err := manager.Create(node.Name, options, node.Body); err != nil {
		return err
	}
	if err := e.message("created container %q (%s)", node.Name, options); err != nil {
		return err
	}
	if len(node.Body) == 0 {
		return nil
	}

	previous := manager.Active().Name
	if _, err := manager.Switch(node.Name); err != nil {
		return err
	}
	bodyErr := e.executeBody(ctx, node.Body)

	// The body may have destroyed the previous container.
	if _, exists := manager.Get(previous); !exists {
		previous = container.DefaultName
	}
	if _, err := manager.Switch(previous); err != nil {
		return err
	}
	if bodyErr != nil {
		if err := manager.Destroy(node.Name); err != nil {
			e.logger.Warn("removing container after failed body", "container", node.Name, "error", err)
		}
		return fmt.Errorf("initializing container %q: %w", node.Name, bodyErr)
	}
	return nil
}

func (e *Executor) executeSwitchContainer(node *ast.SwitchContainer) error {
	switched, err := e.state.Containers.Switch(node.Name)
	if err != nil {
		return err
	}
	return e.message("switched to container %q at %s", switched.Name, switched.Context.Current().Path)
}

func (e *Executor) executeDestroyContainer(node *ast.DestroyContainer) error {
	wasActive := e.state.Containers.Active().Name == node.Name
	if err := e.state.Containers.Destroy(node.Name); err != nil {
		return err
	}
	if wasActive {
		return e.message("destroyed container %q; %q is active", node.Name, container.DefaultName)
	}
	return e.message("destroyed container %q", node.Name)
}

func (e *Executor) executeExportContainer(ctx context.Context, node *ast.ExportContainer) error {
	data, err := e.state.Containers.Export(node.Name)
	if err != nil {
		return err
	}
	path, err := e.evalPath(ctx, node.Path)
	if err != nil {
		return err
	}
	resolved := e.navigation().Resolve(path)
	if e.state.DryRun {
		return e.message("dry run: would export container %q to %s", node.Name, resolved)
	}
	if err := e.writeFile(resolved, data); err != nil {
		return fmt.Errorf("exporting container %q: %w", node.Name, err)
	}
	e.logger.Info("container exported", "container", node.Name, "path", resolved)
	return e.message("exported container %q to %s", node.Name, resolved)
}
