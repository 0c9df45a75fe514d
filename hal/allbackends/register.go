// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package allbackends

import (
	// Import every HAL backend this module ships for side-effect
	// registration. Each backend's init() function registers it with
	// hal.RegisterBackend(). A caller targeting real hardware instead
	// blank-imports their own hal.Backend implementation directly.

	// No-op backend - always available, useful for testing.
	_ "github.com/gogpu/shaderchain/hal/noop"

	// Software rasterizer - pure Go, no native graphics API required.
	_ "github.com/gogpu/shaderchain/hal/software"
)
