// Package app wires buffers, a split tree, a renderer and an input source
// into an interactive session.
//
// A Session owns two buffers: the output buffer that producers and
// confirmed lines append to, and the one-row prompt buffer edited by a
// line editing scheme. By default they are laid out as
//
//	Vertical: { 1: output, 1!: prompt }
//
// EditPrompt renders, waits for an event or a redraw request and feeds
// events to the scheme until a line is confirmed or aborted. Chat runs that
// loop repeatedly, echoing confirmed lines into the output while
// background workers keep writing to it.
package app
