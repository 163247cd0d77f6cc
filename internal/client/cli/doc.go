// Package cli implements the solcraft command-line client.
//
// Every engine operation and query is a subcommand with its own flags.
// Signing keys are referenced by keystore name and addresses may be given
// either in base58 or as the name of a stored key. Results are printed as
// indented JSON.
//
// With no subcommand the client starts an interactive prompt that accepts
// the same commands, one per line.
package cli
