// Package viz renders epidemic runs for the terminal.
//
//   - [Trajectory]: all compartments over time on one asciigraph chart
//   - [Series]: a single curve, used for peaks and final sizes in sweeps
//   - [Summary]: a lipgloss panel of run diagnostics
package viz
