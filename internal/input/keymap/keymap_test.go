package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panes/internal/input/key"
)

func TestKeymapLookup(t *testing.T) {
	km := NewKeymap("test").
		Add("<C-a>", "move-start").
		Add("Ctrl+E", "move-end").
		Add("<CR>", "confirm")
	p, err := km.Parse()
	require.NoError(t, err)

	tests := []struct {
		ev     key.Event
		action string
		found  bool
	}{
		{key.NewRuneEvent('a', key.ModCtrl), "move-start", true},
		{key.NewRuneEvent('e', key.ModCtrl), "move-end", true},
		{key.NewSpecialEvent(key.KeyEnter, key.ModNone), "confirm", true},
		{key.NewRuneEvent('a', key.ModNone), "", false},
		{key.NewSpecialEvent(key.KeyEnter, key.ModAlt), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ev.String(), func(t *testing.T) {
			b, ok := p.Lookup(tt.ev)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.action, b.Action)
			}
		})
	}
}

func TestKeymapLaterBindingWins(t *testing.T) {
	base := NewKeymap("base").Add("<C-c>", "abort")
	user := NewKeymap("user").AddBinding(NewBinding("<C-c>", "insert-text").WithArg("^C"))
	p := base.Extend(user).MustParse()

	b, ok := p.Lookup(key.NewRuneEvent('c', key.ModCtrl))
	require.True(t, ok)
	assert.Equal(t, "insert-text", b.Action)
	assert.Equal(t, "^C", b.Arg)
	assert.Len(t, base.Bindings, 1, "Extend leaves the receiver alone")
}

func TestKeymapValidate(t *testing.T) {
	assert.NoError(t, NewKeymap("ok").Add("x", "delete-forward").Validate())

	err := NewKeymap("bad").Add("<Nope>", "confirm").Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, key.ErrInvalidSpec)

	err = NewKeymap("empty").Add("", "confirm").Validate()
	assert.ErrorIs(t, err, key.ErrEmptySpec)

	err = NewKeymap("noaction").Add("x", "").Validate()
	assert.ErrorContains(t, err, "empty action")
}

func TestKeymapClone(t *testing.T) {
	km := NewKeymap("a").WithSource("default").Add("x", "one")
	c := km.Clone()
	c.Bindings[0].Action = "two"
	assert.Equal(t, "one", km.Bindings[0].Action)
	assert.Equal(t, "default", c.Source)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, `{"name": "mine", "bindings": [{"keys": "<C-u>", "action": "delete-backward"}]}`},
		{FormatTOML, "name = \"mine\"\n\n[[bindings]]\nkeys = \"<C-u>\"\naction = \"delete-backward\"\n"},
		{FormatYAML, "name: mine\nbindings:\n  - keys: <C-u>\n    action: delete-backward\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			// A leading byte order mark is tolerated.
			km, err := Load(strings.NewReader("\ufeff"+tt.src), tt.format)
			require.NoError(t, err)
			assert.Equal(t, "mine", km.Name)
			require.Len(t, km.Bindings, 1)
			assert.Equal(t, "delete-backward", km.Bindings[0].Action)
		})
	}
}

func TestLoadRejectsBadBindings(t *testing.T) {
	_, err := Load(strings.NewReader(`{"bindings": [{"keys": "<Bogus>", "action": "x"}]}`), FormatJSON)
	assert.ErrorIs(t, err, key.ErrInvalidSpec)

	_, err = Load(strings.NewReader("{"), FormatJSON)
	assert.Error(t, err)

	_, err = Load(strings.NewReader(""), Format("ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings:\n  - keys: <C-g>\n    action: abort\n"), 0o644))

	km, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", km.Name)
	assert.Equal(t, path, km.Source)

	_, err = LoadFile(filepath.Join(dir, "custom.ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
