package worker

import (
	"context"

	lorem "github.com/drhodes/golorem"

	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/styledtext"
)

// Lorem produces placeholder sentences.
type Lorem struct {
	// MinWords and MaxWords bound the length of each sentence.
	MinWords, MaxWords int

	Style core.Style
}

// NewLorem returns a producer of 4 to 12 word sentences in style.
func NewLorem(style core.Style) *Lorem {
	return &Lorem{MinWords: 4, MaxWords: 12, Style: style}
}

// Produce returns one sentence.
func (l *Lorem) Produce(ctx context.Context) (styledtext.Text, error) {
	if err := ctx.Err(); err != nil {
		return styledtext.Text{}, err
	}
	lo, hi := l.MinWords, l.MaxWords
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return styledtext.Styled(lorem.Sentence(lo, hi), l.Style), nil
}
