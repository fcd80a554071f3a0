package main

import "golang.org/x/sys/unix"

// maxRSSBytes returns the peak resident set size of this process.
func maxRSSBytes() int64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// Linux reports kilobytes.
	return int64(ru.Maxrss) * 1024
}
