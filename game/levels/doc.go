// Package levels holds the built-in Chromattis level catalog and display
// palette.
//
// The classic pack is compiled into the binary so every process can play
// without a levels directory. Classic returns a deep copy on each call;
// callers may hand it to an engine or a pack manager without sharing
// memory with other sessions.
package levels
