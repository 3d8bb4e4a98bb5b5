package model

import internalmodel "github.com/shepmaster/my-error/internal/model"

// Visibility re-exports the internal visibility enumeration.
type Visibility = internalmodel.Visibility

const (
	Private = internalmodel.Private
	Public  = internalmodel.Public
)

// SuffixKind re-exports the internal suffix policy enumeration.
type SuffixKind = internalmodel.SuffixKind

const (
	SuffixDefault = internalmodel.SuffixDefault
	SuffixNone    = internalmodel.SuffixNone
	SuffixCustom  = internalmodel.SuffixCustom
)

const (
	// DefaultRuntime is the runtime import path resolved when nothing
	// chooses one.
	DefaultRuntime = internalmodel.DefaultRuntime
	// RuntimeAlias is the local name generated files import the runtime
	// library under.
	RuntimeAlias = internalmodel.RuntimeAlias
)

type Suffix = internalmodel.Suffix
type Field = internalmodel.Field
type Transformation = internalmodel.Transformation
type CausalField = internalmodel.CausalField
type DisplayTemplate = internalmodel.DisplayTemplate
type SelectorKind = internalmodel.SelectorKind
type ContextSelector = internalmodel.ContextSelector
type WhateverSelector = internalmodel.WhateverSelector
type NoContextSelector = internalmodel.NoContextSelector
type FieldContainer = internalmodel.FieldContainer
type Container = internalmodel.Container
type VariantSet = internalmodel.VariantSet
type Record = internalmodel.Record
type Wrapper = internalmodel.Wrapper
type ErrorSet = internalmodel.ErrorSet
