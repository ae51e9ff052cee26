package report

import (
	"fmt"
	"strings"
	"time"
)

// localPrefix marks IDs assigned on the device before the server has seen
// the report. The prefix is part of the persisted format, so local IDs
// survive process restarts and round-trip through JSON unchanged.
const localPrefix = "temp_"

// ID distinguishes locally assigned report IDs from server-assigned ones
// at the type level. The string form stays compatible with the persisted
// layout: local IDs serialize as "temp_<unix-ms>", remote IDs as-is.
type ID struct {
	value string
	local bool
}

// NewLocalID mints a device-local ID from the creation instant.
func NewLocalID(now time.Time) ID {
	return ID{
		value: fmt.Sprintf("%s%d", localPrefix, now.UnixMilli()),
		local: true,
	}
}

// RemoteID wraps a server-assigned identifier.
func RemoteID(value string) ID {
	return ID{value: value}
}

// ParseID classifies a raw string form, local or remote, by its prefix.
func ParseID(value string) ID {
	return ID{
		value: value,
		local: strings.HasPrefix(value, localPrefix),
	}
}

func (id ID) IsLocal() bool { return id.local }

func (id ID) IsZero() bool { return id.value == "" }

func (id ID) String() string { return id.value }

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", id.value)), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrInvalidID
	}
	*id = ParseID(string(data[1 : len(data)-1]))
	return nil
}
