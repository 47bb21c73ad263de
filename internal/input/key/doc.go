// Package key provides key identities, modifiers and key specifications.
//
// Key specifications name a key press in configuration and key-binding
// schemes. Several notations are accepted:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>", "<F2>"
//
// Parse turns a specification into an Event; Event.Matches compares a
// decoded key press against one.
package key
