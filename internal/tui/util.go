package tui

import "fmt"

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func statusCounts(kept, skipped int) string {
	if skipped == 0 {
		return fmt.Sprintf("  features=%d", kept)
	}
	return fmt.Sprintf("  features=%d skipped=%d", kept, skipped)
}
