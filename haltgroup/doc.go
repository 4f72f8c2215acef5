// Package haltgroup coordinates graceful shutdown for a dynamically sized
// group of goroutines.
//
// Usage:
//
//  1. Create a HaltHandle with New.
//  2. Start any number of tasks with Spawn; each receives a Tripwire copy.
//  3. Once all relevant Spawn calls were made, call Ready.
//  4. Call Halt to tell every task to stop, or HaltOnSignal to do so on
//     SIGINT/SIGTERM.
//  5. Call Join to wait for the tasks to stop, optionally bounded by
//     WithJoinTimeout.
//
// Halt does not need to happen after Ready: Spawn, Ready, Halt and Join may
// race freely across goroutines without losing tasks, as long as Ready is
// program-ordered after the Spawn calls it bounds. Cancellation is
// cooperative: a task stops only when it acts on its Tripwire.
package haltgroup
