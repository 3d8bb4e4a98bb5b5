// Package openapi exposes the public contracts for extracting errorset
// definitions embedded in OpenAPI documents under the x-errorsets
// extension. Implementations live under internal/openapi to keep the
// kin-openapi dependency hidden from consumers.
package openapi
