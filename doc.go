// Package wgpu provides a safe, ergonomic WebGPU-style device API for
// the filter-chain runtime in this module.
//
// This package wraps the lower-level hal/ and core/ packages into a
// user-friendly API aligned with the W3C WebGPU specification. It
// ships a pure Go software backend (hal/software) as its one in-tree
// backend that stores real resource data, next to hal/noop, which
// performs no rendering; that is enough to build and test a filter chain without a
// native graphics API; a caller targeting real hardware registers
// their own hal.Backend implementation (Vulkan, Metal, DX12, GL) the
// same way.
//
// # Quick Start
//
// Import this package and a backend registration package:
//
//	import (
//	    "github.com/gogpu/shaderchain"
//	    _ "github.com/gogpu/shaderchain/hal/software"
//	)
//
//	instance, err := wgpu.CreateInstance(nil)
//	// ...
//
// # Resource Lifecycle
//
// All GPU resources must be explicitly released with Release().
// Release is idempotent. Creating resources from, or recording with, a
// released Instance, Adapter, Device or CommandEncoder returns ErrReleased.
//
// # Backend Registration
//
// Backends are registered via blank imports:
//
//	_ "github.com/gogpu/shaderchain/hal/allbackends"  // everything this module ships
//	_ "github.com/gogpu/shaderchain/hal/software"     // pure Go rasterizer only
//	_ "github.com/gogpu/shaderchain/hal/noop"         // testing, no rendering
//
// # Thread Safety
//
// Instance, Adapter, and Device are safe for concurrent use.
// Encoders (CommandEncoder, RenderPassEncoder, ComputePassEncoder) are NOT thread-safe.
package wgpu
