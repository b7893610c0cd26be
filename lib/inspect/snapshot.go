// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

// Snapshot queries system for a LIFE target and folds the result into
// one record. Single-record targets (BATTERY, MEMORY, CPU) return
// their first record; DISK, NETWORK and PROCESSES return totals.
func Snapshot(ctx context.Context, system System, target ast.LifeTarget) (value.Record, error) {
	queryTarget := target.QueryTarget()
	records, err := system.Query(ctx, Request{Target: queryTarget})
	if err != nil {
		return value.Record{}, err
	}

	switch target {
	case ast.LifeBattery:
		if len(records) == 0 {
			return noBattery(), nil
		}
		return records[0], nil
	case ast.LifeMemory, ast.LifeCPU:
		if len(records) == 0 {
			return value.Record{}, fault.New(fault.Inspection, "%s query returned no records", queryTarget)
		}
		return records[0], nil
	case ast.LifeDisk:
		return diskTotals(records), nil
	case ast.LifeNetwork:
		return networkTotals(records), nil
	case ast.LifeProcesses:
		return processTotals(records), nil
	}
	return value.Record{}, fault.New(fault.Inspection, "no snapshot for LIFE target %s", target)
}

func noBattery() value.Record {
	return value.NewRecord(
		value.F("name", value.String("none")),
		value.F("level", value.Number(100)),
		value.F("state", value.String("unknown")),
	)
}

func sizeField(record value.Record, name string) uint64 {
	v, _ := record.Get(name)
	bytes, _ := v.AsSize()
	return bytes
}

func numberField(record value.Record, name string) float64 {
	v, _ := record.Get(name)
	number, _ := v.AsNumber()
	return number
}

func diskTotals(records value.List) value.Record {
	var total, used, free uint64
	for _, record := range records {
		total += sizeField(record, "total")
		used += sizeField(record, "used")
		free += sizeField(record, "free")
	}
	return value.NewRecord(
		value.F("disks", value.Number(float64(len(records)))),
		value.F("total", value.Size(total)),
		value.F("used", value.Size(used)),
		value.F("free", value.Size(free)),
		value.F("usage", value.Number(percent(used, total))),
	)
}

func networkTotals(records value.List) value.Record {
	var received, transmitted uint64
	for _, record := range records {
		received += sizeField(record, "received")
		transmitted += sizeField(record, "transmitted")
	}
	return value.NewRecord(
		value.F("interfaces", value.Number(float64(len(records)))),
		value.F("received", value.Size(received)),
		value.F("transmitted", value.Size(transmitted)),
	)
}

func processTotals(records value.List) value.Record {
	var running int
	var memory uint64
	var topName string
	topCPU := -1.0
	for _, record := range records {
		if state, _ := record.Get("state"); state.String() == "R" {
			running++
		}
		memory += sizeField(record, "memory")
		if cpu := numberField(record, "cpu"); cpu > topCPU {
			topCPU = cpu
			name, _ := record.Get("name")
			topName = name.String()
		}
	}
	if topCPU < 0 {
		topCPU = 0
	}
	return value.NewRecord(
		value.F("count", value.Number(float64(len(records)))),
		value.F("running", value.Number(float64(running))),
		value.F("memory", value.Size(memory)),
		value.F("top", value.String(topName)),
		value.F("top_cpu", value.Number(topCPU)),
	)
}

func percent(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return roundTenth(float64(part) / float64(whole) * 100)
}

func roundTenth(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}
