package wgpu

import "github.com/gogpu/shaderchain/hal"

// Texture represents a GPU texture.
type Texture struct {
	hal           hal.Texture
	device        *Device
	format        TextureFormat
	width         uint32
	height        uint32
	mipLevelCount uint32
	released      bool
}

// Format returns the texture format.
func (t *Texture) Format() TextureFormat { return t.format }

// Width returns the texture's base mip level width.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture's base mip level height.
func (t *Texture) Height() uint32 { return t.height }

// MipLevelCount returns the number of mip levels the texture was
// created with.
func (t *Texture) MipLevelCount() uint32 { return t.mipLevelCount }

// Release destroys the texture.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	halDevice := t.device.halDevice()
	if halDevice != nil {
		halDevice.DestroyTexture(t.hal)
	}
}

// TextureView represents a view into a texture.
type TextureView struct {
	hal      hal.TextureView
	device   *Device
	texture  *Texture
	released bool
}

// Release destroys the texture view.
func (v *TextureView) Release() {
	if v.released {
		return
	}
	v.released = true
	halDevice := v.device.halDevice()
	if halDevice != nil {
		halDevice.DestroyTextureView(v.hal)
	}
}
