package filterchain_test

import (
	"testing"

	"github.com/gogpu/shaderchain/filterchain"
)

func TestLoadLUTNoMipmap(t *testing.T) {
	instance, adapter, device := createTestDevice(t)
	defer instance.Release()
	defer adapter.Release()
	defer device.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		t.Fatalf("CreateCommandEncoder: %v", err)
	}

	pixels := make([]byte, 4*4*4)
	lut, err := filterchain.LoadLUT(device, encoder, nil, 4, 4, pixels, false)
	if err != nil {
		t.Fatalf("LoadLUT: %v", err)
	}
	defer lut.Release()

	if lut.Texture.MipLevelCount() != 1 {
		t.Fatalf("MipLevelCount() = %d, want 1 without mipmap", lut.Texture.MipLevelCount())
	}
}

func TestLoadLUTWithMipmap(t *testing.T) {
	instance, adapter, device := createTestDevice(t)
	defer instance.Release()
	defer adapter.Release()
	defer device.Release()

	gen, err := filterchain.NewMipGenerator(device)
	if err != nil {
		t.Fatalf("NewMipGenerator: %v", err)
	}
	defer gen.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		t.Fatalf("CreateCommandEncoder: %v", err)
	}

	pixels := make([]byte, 64*64*4)
	lut, err := filterchain.LoadLUT(device, encoder, gen, 64, 64, pixels, true)
	if err != nil {
		t.Fatalf("LoadLUT: %v", err)
	}
	defer lut.Release()

	if lut.Texture.MipLevelCount() != 7 {
		t.Fatalf("MipLevelCount() = %d, want 7 for a 64x64 base", lut.Texture.MipLevelCount())
	}
}
