package scoring

import "golang.org/x/mod/semver"

// APIVersion is the version of the HTTP contract implemented by this package.
const APIVersion = "v1.0.0"

// APIVersionHeader carries the server's APIVersion on every response.
const APIVersionHeader = "X-Mathcraft-API"

// CheckAPIVersion verifies that a server advertising version v can be used by
// this client. Servers that don't advertise a version are accepted.
func CheckAPIVersion(v string) error {
	if v == "" {
		return nil
	}
	if !semver.IsValid(v) || semver.Major(v) != semver.Major(APIVersion) {
		return &ErrIncompatibleAPI{Server: v, Client: APIVersion}
	}
	return nil
}
