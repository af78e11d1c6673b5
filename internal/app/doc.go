// Package app contains the core application logic of the sosi command. It
// turns a resolved configuration into a run over the input files, decoupled
// from the command-line entrypoint.
package app
