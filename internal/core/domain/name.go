// Package domain contains the core domain model of the pipeline engine:
// task identity, ledger records and the canonical call representation.
package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// ValidateName checks whether name is acceptable as a durable task name.
// Names are ledger keys and appear in log lines; they must not be confusable
// with filesystem paths or shell quoting.
func ValidateName(name string) error {
	reason := ""
	switch {
	case name == "":
		reason = "empty"
	case name == "." || name == "..":
		reason = "reserved"
	case name != strings.TrimSpace(name):
		reason = "leading or trailing whitespace"
	case strings.ContainsAny(name, "/\x00~'\"\\"):
		reason = "contains a path-unsafe character"
	}
	if reason != "" {
		return zerr.With(zerr.With(ErrInvalidName, "name", name), "reason", reason)
	}
	return nil
}

// ValidateCallKey checks whether key is acceptable as a persisted call
// representation. Call keys never name directories, so parentheses, spaces
// and commas are fine; only degenerate keys are rejected.
func ValidateCallKey(key string) error {
	switch {
	case key == "":
		return zerr.With(ErrInvalidName, "reason", "empty call key")
	case strings.ContainsRune(key, '\x00'):
		return zerr.With(zerr.With(ErrInvalidName, "key", key), "reason", "contains NUL")
	case key != strings.TrimSpace(key):
		return zerr.With(zerr.With(ErrInvalidName, "key", key), "reason", "leading or trailing whitespace")
	}
	return nil
}

// ShortID returns a short stable digest of a task name. Batch queues
// restrict job name length and charset, and log lines stay greppable with a
// fixed-width id, so the full name is never used verbatim outside the ledger.
func ShortID(name string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(name))
}

// VersionedName folds a version tag into a ledger key. Version 1 is the
// implied default and maps to the bare name, so bumping a version leaves
// prior versions' ledger rows intact under their own keys.
func VersionedName(name string, version int) string {
	if version <= 1 {
		return name
	}
	return fmt.Sprintf("%s@v%d", name, version)
}
