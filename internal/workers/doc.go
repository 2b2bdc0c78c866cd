// Package workers provides the timing primitives behind every background
// activity of the SDK: session renewal, reconnect backoff and keepalive.
//
// Components never call time.AfterFunc directly; they receive a [Scheduler],
// which lets tests replace wall-clock time with a [ManualScheduler] and step
// through renewals and backoff deterministically.
package workers
