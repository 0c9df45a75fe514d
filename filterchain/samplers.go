package filterchain

import (
	"fmt"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/shaderchain"
	"github.com/gogpu/shaderchain/preset"
)

// SamplerKey identifies one entry of the chain's sampler palette: the
// cross product of wrap mode, minification/magnification filter, and
// mipmap filter a bound texture's source pass config can request (spec
// §4.6 init step 2, §3 FilterChain ownership).
type SamplerKey struct {
	Wrap         preset.WrapMode
	Filter       preset.FilterMode
	MipmapFilter preset.FilterMode
}

// normalize resolves FilterUnspecified to the renderer's own default
// (linear) before it is used as a palette key or a HAL sampler
// descriptor value.
func (k SamplerKey) normalize() SamplerKey {
	if k.Filter == preset.FilterUnspecified {
		k.Filter = preset.FilterLinear
	}
	if k.MipmapFilter == preset.FilterUnspecified {
		k.MipmapFilter = preset.FilterLinear
	}
	return k
}

// SamplerPalette holds one sampler per reachable (WrapMode, FilterMode,
// MipmapFilterMode) combination, created once at LoadFromPreset time and
// reused across every pass and every frame.
type SamplerPalette struct {
	device   *wgpu.Device
	samplers map[SamplerKey]*wgpu.Sampler
}

var allWrapModes = []preset.WrapMode{
	preset.WrapClampToBorder,
	preset.WrapClampToEdge,
	preset.WrapRepeat,
	preset.WrapMirroredRepeat,
}

var allFilterModes = []preset.FilterMode{preset.FilterNearest, preset.FilterLinear}

// NewSamplerPalette builds the full cross product of wrap x filter x
// mipmap-filter samplers up front, so per-frame texture binding never
// allocates a sampler.
func NewSamplerPalette(device *wgpu.Device) (*SamplerPalette, error) {
	p := &SamplerPalette{
		device:   device,
		samplers: make(map[SamplerKey]*wgpu.Sampler, len(allWrapModes)*len(allFilterModes)*len(allFilterModes)),
	}

	for _, wrap := range allWrapModes {
		for _, filter := range allFilterModes {
			for _, mip := range allFilterModes {
				key := SamplerKey{Wrap: wrap, Filter: filter, MipmapFilter: mip}
				sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
					AddressModeU: wrapModeToWGPU(wrap),
					AddressModeV: wrapModeToWGPU(wrap),
					AddressModeW: wrapModeToWGPU(wrap),
					MagFilter:    filterModeToWGPU(filter),
					MinFilter:    filterModeToWGPU(filter),
					MipmapFilter: filterModeToWGPU(mip),
					LodMinClamp:  0,
					LodMaxClamp:  32,
				})
				if err != nil {
					p.Release()
					return nil, &BackendInitError{Stage: "sampler palette", Err: err}
				}
				p.samplers[key] = sampler
			}
		}
	}

	Logger().Debug("sampler palette built", "count", len(p.samplers))
	return p, nil
}

// Get returns the sampler for the given (wrap, filter, mipmap-filter)
// triple, resolving FilterUnspecified to the renderer default first.
func (p *SamplerPalette) Get(wrap preset.WrapMode, filter, mipFilter preset.FilterMode) *wgpu.Sampler {
	key := SamplerKey{Wrap: wrap, Filter: filter, MipmapFilter: mipFilter}.normalize()
	s, ok := p.samplers[key]
	if !ok {
		Logger().Warn("sampler palette miss, this should not happen", "key", fmt.Sprintf("%+v", key))
		return nil
	}
	return s
}

// Release destroys every sampler in the palette.
func (p *SamplerPalette) Release() {
	for _, s := range p.samplers {
		s.Release()
	}
	p.samplers = nil
}

// wrapModeToWGPU maps a preset wrap mode onto the HAL's AddressMode.
// gputypes has no ClampToBorder constant on any backend; slang presets
// that request it get edge clamping instead, which is the closest
// supported behavior for the single-pixel border case shaders rely on.
func wrapModeToWGPU(w preset.WrapMode) wgpu.AddressMode {
	switch w {
	case preset.WrapRepeat:
		return gputypes.AddressModeRepeat
	case preset.WrapMirroredRepeat:
		return gputypes.AddressModeMirrorRepeat
	default: // WrapClampToEdge, WrapClampToBorder
		return gputypes.AddressModeClampToEdge
	}
}

func filterModeToWGPU(f preset.FilterMode) wgpu.FilterMode {
	if f == preset.FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}
