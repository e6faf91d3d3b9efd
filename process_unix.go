//go:build !windows

package termpix

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// parentProcesses walks /proc from the parent of the current process
func parentProcesses(maxDepth int) ([]string, error) {
	var paths []string
	pid := os.Getppid()
	for i := 0; i < maxDepth && pid > 1; i++ {
		comm, ppid, err := procStat(pid)
		if err != nil {
			if len(paths) == 0 {
				return nil, err
			}
			break
		}
		if exe, err := os.Readlink(filepath.Join("/proc", strconv.Itoa(pid), "exe")); err == nil {
			comm = exe
		}
		paths = append(paths, comm)
		pid = ppid
	}
	return paths, nil
}

// procStat returns the command name and parent pid (field 4) from /proc/<pid>/stat
func procStat(pid int) (string, int, error) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return "", 0, fmt.Errorf("failed to read process status: %w", err)
	}
	return parseProcStat(string(data))
}

// parseProcStat parses "pid (comm) state ppid ...". The command name may itself
// contain spaces and parentheses so it is delimited by the last ')'.
func parseProcStat(stat string) (string, int, error) {
	open := strings.IndexByte(stat, '(')
	end := strings.LastIndexByte(stat, ')')
	if open < 0 || end < open {
		return "", 0, fmt.Errorf("malformed process status %q", stat)
	}
	fields := strings.Fields(stat[end+1:])
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("malformed process status %q", stat)
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("malformed parent pid: %w", err)
	}
	return stat[open+1 : end], ppid, nil
}
