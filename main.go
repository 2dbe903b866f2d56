// Package main provides the entry point for the sudoku scanner CLI.
//
// Usage:
//
//	sudoku-scanner scan puzzle.jpg
//	sudoku-scanner scan --overlay out.png --solve puzzle.jpg
//	sudoku-scanner train --training train.csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
