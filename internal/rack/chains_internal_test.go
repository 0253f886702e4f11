package rack

import (
	"strings"
	"testing"
)

func TestDecodeChainRecoversFromPanic(t *testing.T) {
	d := newDecoder(nil)

	chain, err := d.decodeChain(nil, 1, 0, "chains[1]")
	if err == nil || !strings.Contains(err.Error(), "unexpected structure") {
		t.Fatalf("expected recovered structure error, got %v", err)
	}
	if chain.Name != "Chain 2" {
		t.Fatalf("chain name = %q, want %q", chain.Name, "Chain 2")
	}
	if chain.Devices == nil || len(chain.Devices) != 0 {
		t.Fatalf("expected empty device list, got %#v", chain.Devices)
	}
}
