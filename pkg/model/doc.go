// Package model defines the resolved error-type model consumed by the
// generation targets. Builders reside in internal/model but return the
// types defined here. A resolved ErrorSet holds one Container per declared
// type: a VariantSet for enum kinds, a Record for struct kinds, a Wrapper
// for wrapper kinds. Field containers carry their classified fields (causal
// cause, trace capture, user-visible context), the selector kind that
// decides the construction surface, a compiled display template, and the
// documentation split into summary and body. Every value is write-once:
// the builder constructs it, targets only read it.
package model
