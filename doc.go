// Package myerror is the runtime support library for error types produced
// by myerror-gen. Generated code imports it for stack trace capture and for
// the Error interface that tags every generated type with a stable kind;
// applications import it to walk wrapped chains with KindOf and TraceOf, or
// to raise one-off errors through Whatever without declaring a type first.
//
// The generator toolchain lives under cmd/myerror-gen and pkg; nothing in
// this package depends on it, so programs that only consume generated types
// pay for exactly this file and its two siblings.
package myerror
