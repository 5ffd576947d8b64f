// Command slowmovie cycles a movie's frames into the desktop wallpaper.
//
// Running slowmovie without a subcommand takes the machine-wide lock and
// runs the frame scheduler; a second invocation opens the configurator
// instead. The subcommands inspect state without taking the lock.
package main
