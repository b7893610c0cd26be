// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/clock"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/navigation"
)

// DefaultName is the container that exists from startup and cannot be
// destroyed.
const DefaultName = "default"

// Options are the permission options fixed when a container is created.
type Options struct {
	AllowActions bool
	ReadOnly     bool
}

// OptionsFrom converts parsed CREATE CONTAINER options.
func OptionsFrom(options ast.ContainerOptions) Options {
	return Options{AllowActions: options.AllowActions, ReadOnly: options.ReadOnly}
}

func (o Options) String() string {
	return fmt.Sprintf("allow_actions=%t, read_only=%t", o.AllowActions, o.ReadOnly)
}

// Container is one isolated execution environment. Name, Options, Body
// and Created never change after creation; Variables and Context are
// mutated by the executor while the container is active.
type Container struct {
	Name      string
	Options   Options
	Variables *Scope
	Context   *navigation.Context
	Body      []ast.Statement
	Created   time.Time
}

// Summary is a row of LIST CONTAINERS.
type Summary struct {
	Name      string
	Options   Options
	Variables int
	Depth     int
	Active    bool
	Created   time.Time
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// NewContext builds the navigation context for each new container.
	// Required.
	NewContext func() (*navigation.Context, error)

	// Clock stamps creation times. Defaults to the real clock.
	Clock clock.Clock
}

// Manager owns the container table and the active pointer.
type Manager struct {
	mu         sync.Mutex
	containers map[string]*Container
	active     string
	newContext func() (*navigation.Context, error)
	clock      clock.Clock
}

// NewManager returns a manager holding only the default container,
// which is active and permits actions (the global flag alone governs
// it).
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.NewContext == nil {
		return nil, fmt.Errorf("container: ManagerConfig.NewContext is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	manager := &Manager{
		containers: make(map[string]*Container),
		active:     DefaultName,
		newContext: config.NewContext,
		clock:      config.Clock,
	}
	if _, err := manager.create(DefaultName, Options{AllowActions: true}, nil); err != nil {
		return nil, err
	}
	return manager, nil
}

// Create adds a container. It does not change the active container.
func (m *Manager) Create(name string, options Options, body []ast.Statement) (*Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(name, options, body)
}

func (m *Manager) create(name string, options Options, body []ast.Statement) (*Container, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fault.New(fault.NamingConflict, "container name must not be empty")
	}
	if _, exists := m.containers[name]; exists {
		return nil, fault.New(fault.NamingConflict, "container %q already exists", name)
	}
	context, err := m.newContext()
	if err != nil {
		return nil, fmt.Errorf("creating context for container %q: %w", name, err)
	}
	created := &Container{
		Name:      name,
		Options:   options,
		Variables: NewScope(),
		Context:   context,
		Body:      body,
		Created:   m.clock.Now(),
	}
	m.containers[name] = created
	return created, nil
}

// Switch makes name the active container and returns it.
func (m *Manager) Switch(name string) (*Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, exists := m.containers[name]
	if !exists {
		return nil, fault.NotFoundf("container %q does not exist", name)
	}
	m.active = name
	return target, nil
}

// Destroy removes a container. Destroying the active container makes
// the default container active again.
func (m *Manager) Destroy(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == DefaultName {
		return fault.Securityf("the %q container cannot be destroyed", DefaultName)
	}
	if _, exists := m.containers[name]; !exists {
		return fault.NotFoundf("container %q does not exist", name)
	}
	delete(m.containers, name)
	if m.active == name {
		m.active = DefaultName
	}
	return nil
}

// Active returns the active container.
func (m *Manager) Active() *Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containers[m.active]
}

// Get returns the named container.
func (m *Manager) Get(name string) (*Container, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found, ok := m.containers[name]
	return found, ok
}

// List returns one summary per container, sorted by name.
func (m *Manager) List() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	summaries := make([]Summary, 0, len(m.containers))
	for name, entry := range m.containers {
		summaries = append(summaries, Summary{
			Name:      name,
			Options:   entry.Options,
			Variables: entry.Variables.Len(),
			Depth:     entry.Context.Depth(),
			Active:    name == m.active,
			Created:   entry.Created,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// Export renders the named container as a script (see [Export]).
func (m *Manager) Export(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, exists := m.containers[name]
	if !exists {
		return nil, fault.NotFoundf("container %q does not exist", name)
	}
	return Export(entry), nil
}
