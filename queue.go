package wgpu

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/shaderchain/hal"
)

// defaultSubmitTimeout is the maximum time to wait for GPU work to complete
// after submitting command buffers. 30 seconds accommodates heavy compute workloads.
const defaultSubmitTimeout = 30 * time.Second

// Queue handles command submission and data transfers.
type Queue struct {
	hal        hal.Queue
	halDevice  hal.Device
	fence      hal.Fence
	fenceValue atomic.Uint64
	device     *Device
}

// Submit submits command buffers for execution.
// This is a synchronous operation - it blocks until the GPU has completed all submitted work.
func (q *Queue) Submit(commandBuffers ...*CommandBuffer) error {
	if q.hal == nil {
		return fmt.Errorf("wgpu: queue not available")
	}

	halBuffers := make([]hal.CommandBuffer, len(commandBuffers))
	for i, cb := range commandBuffers {
		halBuffers[i] = cb.halBuffer()
	}

	nextValue := q.fenceValue.Add(1)
	err := q.hal.Submit(halBuffers, q.fence, nextValue)
	if err != nil {
		return fmt.Errorf("wgpu: submit failed: %w", err)
	}

	_, err = q.halDevice.Wait(q.fence, nextValue, defaultSubmitTimeout)
	if err != nil {
		return fmt.Errorf("wgpu: wait failed: %w", err)
	}

	for _, cb := range commandBuffers {
		raw := cb.halBuffer()
		if raw != nil {
			q.halDevice.FreeCommandBuffer(raw)
		}
	}

	return nil
}

// WriteBuffer writes data to a buffer.
func (q *Queue) WriteBuffer(buffer *Buffer, offset uint64, data []byte) error {
	if q.hal == nil || buffer == nil {
		return fmt.Errorf("wgpu: WriteBuffer: queue or buffer is nil")
	}

	halBuffer := buffer.halBuffer()
	if halBuffer == nil {
		return fmt.Errorf("wgpu: WriteBuffer: no HAL buffer")
	}

	q.hal.WriteBuffer(halBuffer, offset, data)
	return nil
}

// ReadBuffer reads data from a GPU buffer. hal.Queue declares no
// ReadBuffer method, so this works only on backends whose queue provides
// one (hal/software does); on any other backend it returns an error.
func (q *Queue) ReadBuffer(buffer *Buffer, offset uint64, data []byte) error {
	if q.hal == nil {
		return fmt.Errorf("wgpu: queue not available")
	}
	if buffer == nil {
		return fmt.Errorf("wgpu: buffer is nil")
	}

	halBuffer := buffer.halBuffer()
	if halBuffer == nil {
		return ErrReleased
	}

	reader, ok := q.hal.(interface {
		ReadBuffer(buffer hal.Buffer, offset uint64, data []byte) error
	})
	if !ok {
		return fmt.Errorf("wgpu: ReadBuffer: backend queue does not support buffer readback")
	}
	return reader.ReadBuffer(halBuffer, offset, data)
}

// WriteTexture writes data to a texture's base mip level, covering the
// full width/height given. Used to upload decoded LUT pixels.
func (q *Queue) WriteTexture(texture *Texture, width, height uint32, bytesPerRow uint32, data []byte) error {
	if q.hal == nil || texture == nil {
		return fmt.Errorf("wgpu: WriteTexture: queue or texture is nil")
	}

	q.hal.WriteTexture(
		&hal.ImageCopyTexture{Texture: texture.hal},
		data,
		&hal.ImageDataLayout{BytesPerRow: bytesPerRow},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	return nil
}

// release cleans up queue resources.
func (q *Queue) release() {
	if q.fence != nil && q.halDevice != nil {
		q.halDevice.DestroyFence(q.fence)
		q.fence = nil
	}
}
