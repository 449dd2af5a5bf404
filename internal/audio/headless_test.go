//go:build headless

package audio

import "testing"

func TestHeadlessDefaults(t *testing.T) {
	if _, ok := defaultDecoder().(CodecDecoder); !ok {
		t.Errorf("defaultDecoder() = %T, want CodecDecoder", defaultDecoder())
	}

	out, err := NewDeviceOutput(44100, 20)
	if err != nil {
		t.Fatalf("NewDeviceOutput failed: %v", err)
	}
	if _, ok := out.(*NullOutput); !ok {
		t.Errorf("NewDeviceOutput() = %T, want *NullOutput", out)
	}
}
