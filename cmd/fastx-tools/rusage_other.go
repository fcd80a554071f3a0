//go:build !linux && !darwin

package main

// maxRSSBytes is not available on this platform.
func maxRSSBytes() int64 { return 0 }
