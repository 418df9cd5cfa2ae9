// Package shaders embeds the WGSL compute shaders dispatched by the gpu
// package, mirroring the teacher's embed-string-per-shader convention.
package shaders

import (
	_ "embed"
)

//go:embed block_kernel.wgsl
var BlockKernelWGSL string

//go:embed conditional_write.wgsl
var ConditionalWriteWGSL string
