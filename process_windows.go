//go:build windows

package termpix

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

type processEntry struct {
	parent uint32
	exe    string
}

// parentProcesses walks a process snapshot from the parent of the current process
func parentProcesses(maxDepth int) ([]string, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot processes: %w", err)
	}
	defer windows.CloseHandle(snap)

	procs := make(map[uint32]processEntry)
	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		procs[entry.ProcessID] = processEntry{
			parent: entry.ParentProcessID,
			exe:    windows.UTF16ToString(entry.ExeFile[:]),
		}
	}

	var paths []string
	seen := make(map[uint32]bool)
	pid := uint32(os.Getppid())
	for i := 0; i < maxDepth && pid != 0 && !seen[pid]; i++ {
		seen[pid] = true
		p, ok := procs[pid]
		if !ok {
			break
		}
		exe := p.exe
		if full, err := imagePath(pid); err == nil {
			exe = full
		}
		paths = append(paths, exe)
		pid = p.parent
	}
	return paths, nil
}

// imagePath returns the full executable path of pid, which carries the package
// directory name for store-installed terminals
func imagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}
