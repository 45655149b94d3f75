// Package filesystem provides implementations of the types.FS interface.
//
// NewOS returns the production implementation backed by the os package.
// NewAferoFS adapts any afero.Fs, which lets tests run against an
// in-memory MemMapFs without touching the real file system.
package filesystem
