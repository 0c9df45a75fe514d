package filterchain

import (
	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
)

// HistoryRing is a deque of owned textures holding the last N frames'
// inputs, used to satisfy OriginalHistory semantic bindings. History
// reads observe frames f-k for k>=1. Rotate pops the back image, blits
// the new frame input into it, and
// pushes it to the front; later indices are older frames.
type HistoryRing struct {
	device *wgpu.Device
	images []*wgpu.Texture
	format wgpu.TextureFormat
	width  uint32
	height uint32
}

// NewHistoryRing allocates a ring of size images at width x height in
// format. size may be zero if no shader in the preset references
// OriginalHistory, in which case Rotate is a no-op.
func NewHistoryRing(device *wgpu.Device, size int, width, height uint32, format wgpu.TextureFormat) (*HistoryRing, error) {
	r := &HistoryRing{device: device, width: width, height: height, format: format}
	for i := 0; i < size; i++ {
		img, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "history",
			Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		})
		if err != nil {
			r.Release()
			return nil, &BackendInitError{Stage: "history ring", Err: err}
		}
		r.images = append(r.images, img)
	}
	return r, nil
}

// At returns the history image k frames back (k=0 is the most recently
// rotated-in frame, i.e. the previous frame's input). ok is false if k
// is out of range.
func (r *HistoryRing) At(k int) (*wgpu.Texture, bool) {
	if k < 0 || k >= len(r.images) {
		return nil, false
	}
	return r.images[k], true
}

// Len reports the ring's configured depth.
func (r *HistoryRing) Len() int { return len(r.images) }

// Reallocate resizes/reformats every ring slot when the incoming frame's
// size or format no longer matches the ring's current allocation.
func (r *HistoryRing) Reallocate(width, height uint32, format wgpu.TextureFormat) error {
	if width == r.width && height == r.height && format == r.format {
		return nil
	}
	count := len(r.images)
	for _, img := range r.images {
		img.Release()
	}
	r.images = r.images[:0]
	for i := 0; i < count; i++ {
		img, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "history",
			Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		})
		if err != nil {
			return &BackendInitError{Stage: "history ring reallocate", Err: err}
		}
		r.images = append(r.images, img)
	}
	r.width, r.height, r.format = width, height, format
	return nil
}

// Rotate pops the back image, blits src into it via encoder, and moves
// it to the front. src must already match the ring's configured size
// and format; call Reallocate first if it does not.
func (r *HistoryRing) Rotate(encoder *wgpu.CommandEncoder, src *wgpu.Texture) error {
	if len(r.images) == 0 {
		return nil
	}
	back := r.images[len(r.images)-1]
	if err := encoder.CopyTextureToTexture(src, 0, back, 0, r.width, r.height); err != nil {
		return err
	}
	r.images = append([]*wgpu.Texture{back}, r.images[:len(r.images)-1]...)
	return nil
}

// Release destroys every image owned by the ring.
func (r *HistoryRing) Release() {
	for _, img := range r.images {
		img.Release()
	}
	r.images = nil
}
