// Package input defines the events a terminal delivers and the Source
// interface that produces them.
//
// The session and the line editors consume events; they never decode
// terminal input themselves. Backends that own a real terminal implement
// Source, and Queue provides an in-memory Source for scripted input and
// tests.
package input
