// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [CriteriaView] : Enter the filter keyword
//  2. [PreviewView] : Fetch, filter and preview matching saved tracks
//  3. [ConfirmView] : Confirm playlist creation
//  4. [BuildView] : Monitor real-time progress updates
//  5. [ResultView] : Display the created playlist and its share link
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the GeneratorEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
