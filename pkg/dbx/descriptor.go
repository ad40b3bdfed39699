package dbx

import (
	"strings"

	"github.com/dbgate-dev/go-dbgate-core/pkg/errorx"
)

// Scheme identifies one of the supported database backends.
type Scheme string

const (
	SchemeSqlite   Scheme = "sqlite"
	SchemePostgres Scheme = "postgres"
	SchemeMysql    Scheme = "mysql"
)

// Descriptor is the canonical (scheme, address) identity of a logical database.
//
// Descriptors are produced by ParseDescriptor and are immutable once constructed.
// Two descriptors refer to the same logical database exactly when their canonical
// string forms are equal; the address is compared verbatim and the scheme is
// always lower case.
type Descriptor struct {
	Scheme  Scheme
	Address string
}

// ParseDescriptor parses a connection descriptor string of the form
// "<scheme>:<driver-specific-address>".
//
// The string is split on the first ':'. The scheme must case-insensitively
// match one of the supported backends. The address is passed through
// unexamined: for sqlite it is a filesystem path, for postgres and mysql a
// driver DSN. Address syntax problems surface later, from the driver's open
// call. Pure function, no side effects.
func ParseDescriptor(raw string) (Descriptor, error) {
	scheme, address, found := strings.Cut(raw, ":")
	if !found {
		return Descriptor{}, errorx.NewInvalidSchemeError("descriptor %q has no scheme separator, expected <scheme>:<address>", raw)
	}

	normalized := Scheme(strings.ToLower(scheme))
	switch normalized {
	case SchemeSqlite, SchemePostgres, SchemeMysql:
	default:
		return Descriptor{}, errorx.NewInvalidSchemeError("unrecognized scheme %q, expected one of sqlite, postgres, mysql", scheme)
	}

	if address == "" {
		return Descriptor{}, errorx.NewInvalidSchemeError("descriptor %q has an empty address", raw)
	}

	return Descriptor{Scheme: normalized, Address: address}, nil
}

// String - return the canonical descriptor string. Parsing the result yields
// an equal Descriptor.
func (d Descriptor) String() string {
	return string(d.Scheme) + ":" + d.Address
}
