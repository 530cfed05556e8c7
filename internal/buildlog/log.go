package buildlog

import (
	"log"
	"os"
)

// New returns a *log.Logger prefixed with [component], writing to stderr
// with the standard date/time flags — matching the teacher's convention of
// one prefixed logger per subsystem rather than a single global one.
func New(component string) *log.Logger {
	return log.New(os.Stderr, "["+component+"] ", log.LstdFlags)
}
