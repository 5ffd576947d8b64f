// Package daemonrun wires configuration, logging, the singleton lock, the
// configurator launcher, and the frame scheduler into one process run.
package daemonrun
