// Package renderer paints a split tree onto a backend.
//
// Every Render call lays the tree out against the backend's current size,
// paints each buffer's visible window into its rectangle and places the
// terminal cursor for the focused buffer:
//
//	┌─────────────────────────────────────────┐
//	│  split.Tree ──Layout──▶ split.SplitMap   │
//	├─────────────────────────────────────────┤
//	│  buffer.Snapshot per entry ──▶ cells     │
//	├─────────────────────────────────────────┤
//	│  backend.Backend (tcell, ANSI, null)     │
//	└─────────────────────────────────────────┘
//
// The backend is the only place output happens. A failed Show is returned
// as a *RenderError and never retried; the caller decides whether to render
// again.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.SetFocus(prompt)
//	err := r.Render(tree)
package renderer
