package ui

import "fmt"

// RenderNormal renders text in the normal style
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// RenderHint renders help/hint text
func RenderHint(s string) string {
	return HintStyle.Render(s)
}

// PrintError prints an error message to stdout in the error style
func PrintError(msg string) {
	fmt.Println(BadStyle.Render("✗ " + msg))
}

// PrintSuccess prints a success message to stdout
func PrintSuccess(msg string) {
	fmt.Println(GoodStyle.Render("✓ " + msg))
}

// PrintProgress prints a status line during a plain (non-TUI) batch run
func PrintProgress(msg string) {
	fmt.Println(ProgressStyle.Render(msg))
}
