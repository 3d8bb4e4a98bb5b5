package myerror

// Error is implemented by every generated error type: a standard error with
// a stable, machine-readable kind of the form "Container.Variant" (or the
// type name for struct errors).
type Error interface {
	error
	Kind() string
}

// KindOf returns the kind of err or of the nearest error in its Unwrap
// chain, "" when no error in the chain is a generated one.
func KindOf(err error) string {
	for err != nil {
		if e, ok := err.(Error); ok {
			return e.Kind()
		}
		err = unwrapOnce(err)
	}
	return ""
}

// unwrapOnce steps one level down a wrapped chain. Joined errors expose
// Unwrap() []error; the first branch is followed, matching the order
// errors.Is searches in.
func unwrapOnce(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := u.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}
