//go:build windows

package cmd

import "os"

// termWidth returns 0 on Windows; width detection falls back to $COLUMNS.
func termWidth(*os.File) int {
	return 0
}
