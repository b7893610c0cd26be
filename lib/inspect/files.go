// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

const modifiedLayout = "2006-01-02 15:04"

func listFiles(folder string) (value.List, error) {
	info, err := os.Stat(folder)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fault.NotFoundf("folder %s does not exist", folder)
	}
	if err == nil && !info.IsDir() {
		return nil, fault.NotFoundf("%s is not a folder", folder)
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fault.Wrap(fault.Inspection, err, "listing %s", folder)
	}

	records := make(value.List, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		records = append(records, value.NewRecord(
			value.F("name", value.String(entry.Name())),
			value.F("path", value.String(path)),
			value.F("size", value.Size(uint64(info.Size()))),
			value.F("is_dir", value.Bool(info.IsDir())),
			value.F("modified", value.String(info.ModTime().UTC().Format(modifiedLayout))),
			value.F("extension", value.String(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))),
		))
	}
	return records, nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// readContent returns one record per line of path. Without a filter it
// stops after limit lines; with one, every line is offered to it.
func readContent(path string, filter Filter, limit int) (value.List, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fault.NotFoundf("file %s does not exist", path)
		}
		return nil, fault.Wrap(fault.Inspection, err, "opening %s", path)
	}
	defer file.Close()
	if isDirectory(path) {
		return nil, fault.NotFoundf("%s is a folder, not a file", path)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	var records value.List
	number := 0
	for scanner.Scan() {
		number++
		record := value.NewRecord(
			value.F("line", value.Number(float64(number))),
			value.F("content", value.String(scanner.Text())),
		)
		if filter == nil {
			records = append(records, record)
			if len(records) >= limit {
				break
			}
			continue
		}
		keep, err := filter(record)
		if err != nil {
			return nil, err
		}
		if keep {
			records = append(records, record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(fault.Inspection, err, "reading %s", path)
	}
	return records, nil
}

type mount struct {
	device     string
	point      string
	filesystem string
}

func (l *Linux) mounts() []mount {
	data, err := os.ReadFile(filepath.Join(l.procRoot, "mounts"))
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var mounts []mount
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.HasPrefix(fields[0], "/dev/") || seen[fields[1]] {
			continue
		}
		seen[fields[1]] = true
		mounts = append(mounts, mount{device: fields[0], point: fields[1], filesystem: fields[2]})
	}
	return mounts
}

// disks returns one record per block-device mount, or, when path is
// set, the single mount containing path.
func (l *Linux) disks(path string) (value.List, error) {
	mounts := l.mounts()
	if path != "" {
		best, bestLength := mount{point: path}, -1
		for _, candidate := range mounts {
			if withinMount(path, candidate.point) && len(candidate.point) > bestLength {
				best, bestLength = candidate, len(candidate.point)
			}
		}
		record, err := l.disk(best)
		if err != nil {
			return nil, fault.Wrap(fault.Inspection, err, "reading filesystem of %s", path)
		}
		return value.List{record}, nil
	}

	var records value.List
	for _, entry := range mounts {
		record, err := l.disk(entry)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func withinMount(path, point string) bool {
	return point == "/" || path == point || strings.HasPrefix(path, point+"/")
}

func (l *Linux) disk(entry mount) (value.Record, error) {
	total, free, err := l.statfs(entry.point)
	if err != nil {
		return value.Record{}, err
	}
	var used uint64
	if total > free {
		used = total - free
	}
	return value.NewRecord(
		value.F("mount", value.String(entry.point)),
		value.F("device", value.String(entry.device)),
		value.F("filesystem", value.String(entry.filesystem)),
		value.F("total", value.Size(total)),
		value.F("used", value.Size(used)),
		value.F("free", value.Size(free)),
		value.F("usage", value.Number(percent(used, total))),
	), nil
}
