// Package lineeditor turns input events into edits of a single line of a
// buffer.
//
// A Handler receives one event at a time together with the buffer being
// edited and reports whether editing continues, the line is done, editing
// was aborted, or another key scheme should take over. Handlers keep no
// state of their own between calls: the cursor position recorded in the
// buffer is all there is, so different schemes can be swapped between any
// two events.
//
// Schemes:
//
//   - Simple: Enter confirms, Ctrl+C aborts, printable keys insert.
//   - Emacs: readline style C-a, C-e, C-f, C-b, C-d, C-h and C-g.
//   - VimInsert and VimNormal: a two-mode scheme switching on Esc and i/a/I/A.
//   - LuaScheme: a user script decides the action for every key.
//   - KeymapScheme: any keymap, including ones loaded from files.
//
// A Switcher holds several named schemes and routes events to the active
// one.
package lineeditor
