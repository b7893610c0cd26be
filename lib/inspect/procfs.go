// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

// clockTicks is USER_HZ, the unit of the time fields in
// /proc/[pid]/stat. It is 100 on every Linux architecture Go supports.
const clockTicks = 100

// CPUReading captures cumulative CPU time from the first line of
// /proc/stat:
//
//	cpu  user nice system idle iowait irq softirq steal guest guest_nice
//
// busy = user + nice + system + irq + softirq + steal
// idle = idle + iowait
//
// guest and guest_nice are already included in user and nice.
type CPUReading struct {
	Busy uint64
	Idle uint64
}

// readCPUStatsFrom parses the aggregate line of a /proc/stat file.
// Returns nil on any parse failure.
func readCPUStatsFrom(path string) *CPUReading {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 9 || fields[0] != "cpu" {
		return nil
	}
	values := make([]uint64, len(fields)-1)
	for i := 1; i < len(fields); i++ {
		parsed, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return nil
		}
		values[i-1] = parsed
	}
	return &CPUReading{
		Busy: values[0] + values[1] + values[2] + values[5] + values[6] + values[7],
		Idle: values[3] + values[4],
	}
}

// CPUPercent computes utilization between two readings. A nil previous
// reading measures from boot. Returns 0 when current is nil or no time
// has passed.
func CPUPercent(previous, current *CPUReading) float64 {
	if current == nil {
		return 0
	}
	if previous == nil {
		previous = &CPUReading{}
	}
	if current.Busy < previous.Busy || current.Idle < previous.Idle {
		return 0
	}
	busyDelta := current.Busy - previous.Busy
	totalDelta := busyDelta + current.Idle - previous.Idle
	if totalDelta == 0 {
		return 0
	}
	return float64(busyDelta) / float64(totalDelta) * 100
}

// cpuInfo holds the static fields of /proc/cpuinfo.
type cpuInfo struct {
	brand     string
	cores     int
	frequency float64
}

func readCPUInfo(path string) cpuInfo {
	var info cpuInfo
	file, err := os.Open(path)
	if err != nil {
		return info
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, rest, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		rest = strings.TrimSpace(rest)
		switch key {
		case "processor":
			info.cores++
		case "model name":
			if info.brand == "" {
				info.brand = rest
			}
		case "cpu MHz":
			if info.frequency == 0 {
				info.frequency, _ = strconv.ParseFloat(rest, 64)
			}
		}
	}
	return info
}

func (l *Linux) cpu() value.Record {
	info := readCPUInfo(filepath.Join(l.procRoot, "cpuinfo"))
	current := readCPUStatsFrom(filepath.Join(l.procRoot, "stat"))

	l.mu.Lock()
	usage := CPUPercent(l.previousCPU, current)
	if current != nil {
		l.previousCPU = current
	}
	l.mu.Unlock()

	return value.NewRecord(
		value.F("brand", value.String(info.brand)),
		value.F("cores", value.Number(float64(info.cores))),
		value.F("frequency", value.Number(roundTenth(info.frequency))),
		value.F("usage", value.Number(roundTenth(usage))),
	)
}

// readKeyValueKB parses "Key:   1234 kB" lines (meminfo, status) into
// bytes. Lines without a kB suffix are read as plain numbers.
func readKeyValueKB(path string) (map[string]uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]uint64)
	for _, line := range strings.Split(string(data), "\n") {
		key, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		number, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		if len(fields) > 1 && fields[1] == "kB" {
			number *= value.Kilobyte
		}
		values[key] = number
	}
	return values, nil
}

func (l *Linux) memory() (value.Record, error) {
	info, err := readKeyValueKB(filepath.Join(l.procRoot, "meminfo"))
	if err != nil {
		return value.Record{}, fault.Wrap(fault.Inspection, err, "reading memory information")
	}
	total := info["MemTotal"]
	available, ok := info["MemAvailable"]
	if !ok {
		available = info["MemFree"] + info["Buffers"] + info["Cached"]
	}
	if available > total {
		available = total
	}
	used := total - available
	return value.NewRecord(
		value.F("total", value.Size(total)),
		value.F("used", value.Size(used)),
		value.F("free", value.Size(info["MemFree"])),
		value.F("available", value.Size(available)),
		value.F("usage", value.Number(percent(used, total))),
		value.F("swap_total", value.Size(info["SwapTotal"])),
		value.F("swap_free", value.Size(info["SwapFree"])),
	), nil
}

func (l *Linux) network() (value.List, error) {
	data, err := os.ReadFile(filepath.Join(l.procRoot, "net/dev"))
	if err != nil {
		return nil, fault.Wrap(fault.Inspection, err, "reading network statistics")
	}
	var records value.List
	for _, line := range strings.Split(string(data), "\n") {
		name, counters, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields := strings.Fields(counters)
		if len(fields) < 16 {
			continue
		}
		parse := func(index int) uint64 {
			number, _ := strconv.ParseUint(fields[index], 10, 64)
			return number
		}
		records = append(records, value.NewRecord(
			value.F("name", value.String(strings.TrimSpace(name))),
			value.F("received", value.Size(parse(0))),
			value.F("transmitted", value.Size(parse(8))),
			value.F("packets_received", value.Number(float64(parse(1)))),
			value.F("packets_transmitted", value.Number(float64(parse(9)))),
			value.F("errors", value.Number(float64(parse(2)+parse(10)))),
		))
	}
	return records, nil
}

// ReadSysfsString reads a single-value pseudo-file and trims
// whitespace. Returns "" on any error.
func ReadSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (l *Linux) uptime() float64 {
	fields := strings.Fields(ReadSysfsString(filepath.Join(l.procRoot, "uptime")))
	if len(fields) == 0 {
		return 0
	}
	seconds, _ := strconv.ParseFloat(fields[0], 64)
	return seconds
}

func (l *Linux) system() value.Record {
	var uname unix.Utsname
	unameErr := unix.Uname(&uname)
	fromUname := func(field []byte) string {
		if unameErr != nil {
			return ""
		}
		return unix.ByteSliceToString(field)
	}

	hostname := ReadSysfsString(filepath.Join(l.procRoot, "sys/kernel/hostname"))
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	osType := ReadSysfsString(filepath.Join(l.procRoot, "sys/kernel/ostype"))
	if osType == "" {
		osType = fromUname(uname.Sysname[:])
	}
	kernel := ReadSysfsString(filepath.Join(l.procRoot, "sys/kernel/osrelease"))
	if kernel == "" {
		kernel = fromUname(uname.Release[:])
	}
	return value.NewRecord(
		value.F("hostname", value.String(hostname)),
		value.F("os", value.String(osType)),
		value.F("kernel", value.String(kernel)),
		value.F("arch", value.String(fromUname(uname.Machine[:]))),
		value.F("uptime", value.Number(float64(int64(l.uptime())))),
	)
}

func (l *Linux) batteries() value.List {
	base := filepath.Join(l.sysRoot, "class/power_supply")
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var records value.List
	for _, entry := range entries {
		directory := filepath.Join(base, entry.Name())
		if ReadSysfsString(filepath.Join(directory, "type")) != "Battery" {
			continue
		}
		level, err := strconv.ParseFloat(ReadSysfsString(filepath.Join(directory, "capacity")), 64)
		if err != nil {
			continue
		}
		state := strings.ToLower(ReadSysfsString(filepath.Join(directory, "status")))
		if state == "" {
			state = "unknown"
		}
		records = append(records, value.NewRecord(
			value.F("name", value.String(entry.Name())),
			value.F("level", value.Number(level)),
			value.F("state", value.String(state)),
		))
	}
	return records
}

// processStat holds the fields of /proc/[pid]/stat that PROCESS
// records expose.
type processStat struct {
	name      string
	state     string
	ppid      int
	ticks     uint64
	startTime uint64
}

// parseProcessStat parses /proc/[pid]/stat. The command name is
// parenthesized and may itself contain spaces and parentheses, so
// fields are counted from the last ')'.
func parseProcessStat(data []byte) (processStat, bool) {
	open := bytes.IndexByte(data, '(')
	closing := bytes.LastIndexByte(data, ')')
	if open < 0 || closing < open {
		return processStat{}, false
	}
	fields := strings.Fields(string(data[closing+1:]))
	// fields[0] is state (stat field 3); utime, stime and starttime
	// are stat fields 14, 15 and 22.
	if len(fields) < 20 {
		return processStat{}, false
	}
	ppid, _ := strconv.Atoi(fields[1])
	utime, _ := strconv.ParseUint(fields[11], 10, 64)
	stime, _ := strconv.ParseUint(fields[12], 10, 64)
	start, _ := strconv.ParseUint(fields[19], 10, 64)
	return processStat{
		name:      string(data[open+1 : closing]),
		state:     fields[0],
		ppid:      ppid,
		ticks:     utime + stime,
		startTime: start,
	}, true
}

func (l *Linux) processes(ctx context.Context) (value.List, error) {
	entries, err := os.ReadDir(l.procRoot)
	if err != nil {
		return nil, fault.Wrap(fault.Inspection, err, "listing processes")
	}
	uptime := l.uptime()
	pageSize := uint64(os.Getpagesize())

	var pids []int
	for _, entry := range entries {
		if pid, err := strconv.Atoi(entry.Name()); err == nil && entry.IsDir() {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)

	records := make(value.List, 0, len(pids))
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		directory := filepath.Join(l.procRoot, strconv.Itoa(pid))
		data, err := os.ReadFile(filepath.Join(directory, "stat"))
		if err != nil {
			// The process exited between listing and reading.
			continue
		}
		stat, ok := parseProcessStat(data)
		if !ok {
			continue
		}

		var cpu float64
		if elapsed := uptime - float64(stat.startTime)/clockTicks; elapsed > 0 {
			cpu = float64(stat.ticks) / clockTicks / elapsed * 100
		}
		var memory uint64
		if statm := strings.Fields(ReadSysfsString(filepath.Join(directory, "statm"))); len(statm) > 1 {
			resident, _ := strconv.ParseUint(statm[1], 10, 64)
			memory = resident * pageSize
		}
		command := strings.TrimSpace(strings.ReplaceAll(ReadSysfsString(filepath.Join(directory, "cmdline")), "\x00", " "))

		records = append(records, value.NewRecord(
			value.F("pid", value.Number(float64(pid))),
			value.F("name", value.String(stat.name)),
			value.F("state", value.String(stat.state)),
			value.F("ppid", value.Number(float64(stat.ppid))),
			value.F("cpu", value.Number(roundTenth(cpu))),
			value.F("memory", value.Size(memory)),
			value.F("command", value.String(command)),
		))
	}
	return records, nil
}
