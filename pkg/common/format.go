package common

import "fmt"

// FormatSize renders a byte count in human-readable form ("1.50 MB").
func FormatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	size := float64(bytes)
	idx := -1
	for size >= unit && idx < len(units)-1 {
		size /= unit
		idx++
	}
	return fmt.Sprintf("%.2f %s", size, units[idx])
}
