// Package timer implements the timer records of the dispatcher runtime and a
// manager that arms them.
//
// An Info tracks one Timer through Idle, Pending and Expired. The transition
// to Expired only happens from Pending, so a stray or duplicate OS callback
// that arrives after the timer was stopped or already expired is absorbed.
//
// Every timer belongs to one dispatcher thread. The Manager refuses to start
// a timer on behalf of any other thread and delivers expirations back to the
// owner through a worker pool.
package timer
