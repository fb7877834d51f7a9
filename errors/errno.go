// Package errors defines the small typed error vocabulary used throughout the
// explorer. It mirrors a POSIX errno-style error hierarchy without depending on
// any particular platform's syscall package.
package errors

import (
	"fmt"
)

type FAT12Error string

const ErrImageIO = FAT12Error("Input/output error reading disk image")
const ErrOutOfMemory = FAT12Error("Cannot allocate out of memory")
const ErrPathNotFound = FAT12Error("No such file or directory")
const ErrNotADirectory = FAT12Error("Not a directory")
const ErrNotAFile = FAT12Error("Is a directory")
const ErrBadChain = FAT12Error("Bad cluster in chain")
const ErrDepthExceeded = FAT12Error("Maximum directory depth exceeded")
const ErrArgOverflow = FAT12Error("Read size multiplication overflows")

const ErrInvalidArgument = FAT12Error("Invalid argument")
const ErrNotFound = FAT12Error("No such file or directory")
const ErrIsADirectory = FAT12Error("Is a directory")
const ErrUnexpectedEOF = FAT12Error("Unexpected end of file or stream")
const ErrFileSystemCorrupted = FAT12Error("Structure needs cleaning")
const ErrHandleClosed = FAT12Error("File descriptor in bad state")

func (e FAT12Error) Error() string {
	return string(e)
}

func (e FAT12Error) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), message),
		originalError: e,
	}
}

func (e FAT12Error) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}
