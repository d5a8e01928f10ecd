// Package cli implements the gophcapsule command-line client.
//
// Each subcommand maps onto one server operation: init-config,
// update-price, fund, balance, create, retrieve, claim, info and list.
// Message bodies are sealed locally before they leave the machine, and
// capsules created here are remembered in a local journal.
//
// Run with no subcommand to get an interactive prompt that accepts the
// same commands.
package cli
