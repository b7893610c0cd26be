// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ast

import "strings"

// Target is a query target.
type Target uint8

const (
	TargetInvalid Target = iota
	TargetCPU
	TargetMemory
	TargetDisk
	TargetNetwork
	TargetSystem
	TargetBattery
	TargetProcess
	TargetFiles
	TargetContent
)

var targetNames = map[Target]string{
	TargetCPU:     "CPU",
	TargetMemory:  "MEMORY",
	TargetDisk:    "DISK",
	TargetNetwork: "NETWORK",
	TargetSystem:  "SYSTEM",
	TargetBattery: "BATTERY",
	TargetProcess: "PROCESS",
	TargetFiles:   "FILES",
	TargetContent: "CONTENT",
}

func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return "INVALID"
}

// PathBased reports whether the target reads from a filesystem path
// (FILES, CONTENT, DISK) and so accepts FROM.
func (t Target) PathBased() bool {
	return t == TargetFiles || t == TargetContent || t == TargetDisk
}

// ParseTarget maps a keyword (any case) to a Target. PROCESSES is
// accepted as a synonym for PROCESS.
func ParseTarget(word string) (Target, bool) {
	upper := strings.ToUpper(word)
	if upper == "PROCESSES" {
		return TargetProcess, true
	}
	for target, name := range targetNames {
		if name == upper {
			return target, true
		}
	}
	return TargetInvalid, false
}

// LifeTarget is a resource a LIFE block can monitor.
type LifeTarget uint8

const (
	LifeInvalid LifeTarget = iota
	LifeBattery
	LifeMemory
	LifeCPU
	LifeDisk
	LifeNetwork
	LifeProcesses
)

var lifeTargets = []struct {
	target LifeTarget
	name   string
	query  Target
}{
	{LifeBattery, "BATTERY", TargetBattery},
	{LifeMemory, "MEMORY", TargetMemory},
	{LifeCPU, "CPU", TargetCPU},
	{LifeDisk, "DISK", TargetDisk},
	{LifeNetwork, "NETWORK", TargetNetwork},
	{LifeProcesses, "PROCESSES", TargetProcess},
}

func (t LifeTarget) String() string {
	for _, entry := range lifeTargets {
		if entry.target == t {
			return entry.name
		}
	}
	return "INVALID"
}

// QueryTarget returns the query target whose fields the LIFE snapshot
// exposes. Inside the body, "BATTERY level" reads the snapshot.
func (t LifeTarget) QueryTarget() Target {
	for _, entry := range lifeTargets {
		if entry.target == t {
			return entry.query
		}
	}
	return TargetInvalid
}

// ParseLifeTarget maps a keyword (any case) to a LifeTarget. PROCESS is
// accepted as a synonym for PROCESSES.
func ParseLifeTarget(word string) (LifeTarget, bool) {
	upper := strings.ToUpper(word)
	if upper == "PROCESS" {
		return LifeProcesses, true
	}
	for _, entry := range lifeTargets {
		if entry.name == upper {
			return entry.target, true
		}
	}
	return LifeInvalid, false
}

// ShowTarget selects what SHOW prints.
type ShowTarget uint8

const (
	ShowContext ShowTarget = iota + 1
	ShowVariables
	ShowHistory
)

func (s ShowTarget) String() string {
	switch s {
	case ShowContext:
		return "CONTEXT"
	case ShowVariables:
		return "VARIABLES"
	case ShowHistory:
		return "HISTORY"
	}
	return "INVALID"
}
