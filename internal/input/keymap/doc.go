// Package keymap maps key presses to named actions.
//
// A Keymap is a named, ordered list of bindings. Each binding pairs a key
// specification with an action name and an optional argument:
//
//	km := keymap.NewKeymap("emacs").
//		Add("<C-a>", "move-start").
//		Add("<C-e>", "move-end")
//
// Parse validates every specification once and returns a ParsedKeymap for
// fast lookup. When two bindings match the same key the later one wins, so
// user bindings appended after the defaults override them.
//
// # Key Specifications
//
// Specifications use the formats accepted by key.Parse:
//
//	"a"        - Single character
//	"<C-s>"    - Ctrl+S (angle bracket notation)
//	"Ctrl+S"   - Ctrl+S (readable notation)
//	"<CR>"     - Enter
//	"F2"       - Function key
//
// Keymaps can be loaded from JSON, TOML or YAML files with Load.
package keymap
