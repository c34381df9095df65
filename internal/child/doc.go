// Package child tracks the lifecycle of an operating-system child process
// from launch until its exit status has been observed.
//
// A Child owns a platform process handle, an optional resource bundle, and a
// cached exit state. The handle is created in one of two launch modes:
// Attached handles wait for the process to exit before releasing resources
// when closed, guaranteeing the process is never left running untracked;
// Detached handles release resources immediately and leave the process
// running on its own.
//
// The exit state may be read from any goroutine while another goroutine is
// waiting. Close and general use of the same Child from multiple goroutines
// is supported, with the exception that a Child must not be used after Close
// returns.
package child
