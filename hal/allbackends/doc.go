// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package allbackends imports every HAL backend this module ships.
//
// Import this package for side effects to register them all:
//
//	import (
//		_ "github.com/gogpu/shaderchain/hal/allbackends"
//	)
//
// This will register:
//   - Software backend (all platforms, pure Go rasterizer)
//   - No-op backend (all platforms, for testing)
//
// A caller targeting real hardware (Vulkan, Metal, DX12, OpenGL ES)
// instead blank-imports their own hal.Backend implementation directly;
// this module carries no native-graphics-API backend of its own.
//
// After importing, use hal.GetBackend or hal.SelectBestBackend to access backends.
//
// Example usage:
//
//	import (
//		_ "github.com/gogpu/shaderchain/hal/allbackends"
//		"github.com/gogpu/shaderchain/core"
//	)
//
//	func main() {
//		instance := core.NewInstance(nil)
//		adapters := instance.EnumerateAdapters()
//		for _, a := range adapters {
//			fmt.Println(a)
//		}
//	}
package allbackends
