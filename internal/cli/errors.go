package cli

import "fmt"

type invalidIDError struct {
	kind string
	raw  string
}

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid %s id: %q", e.kind, e.raw)
}

func errInvalidID(kind, raw string) error {
	return invalidIDError{kind: kind, raw: raw}
}

type notSignedInError struct{}

func (notSignedInError) Error() string {
	return "not signed in; run `taskflow auth signin --email ... --password ...`"
}

func errNotSignedIn() error {
	return notSignedInError{}
}
