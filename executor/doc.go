// Package executor runs a job's shell command in a killable child process.
//
// Spawning a real OS process (rather than running the command in-process)
// is mandatory: a timeout needs a subject that can actually be killed, and
// a command may spawn its own descendants that must die with it. Run puts
// the child in its own process group so a timeout or cancellation can
// signal the whole subtree at once, not just the immediate shell.
package executor
