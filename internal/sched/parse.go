package sched

import (
	"fmt"
	"strconv"
	"strings"
)

// parseOrder lists prefixes longest-first so "mem2" is not read as an "m"
// channel with a bad index.
var parseOrder = []struct {
	prefix string
	kind   ChannelKind
}{
	{"snap", ChannelSnapshot},
	{"mem", ChannelMemorySlot},
	{"reg", ChannelRegisterSlot},
	{"d", ChannelDrive},
	{"m", ChannelMeasure},
	{"u", ChannelControl},
	{"a", ChannelAcquire},
}

// ParseChannel parses a conventional short channel name such as "d0",
// "m1", "u0", "a2", "mem3", "reg0" or "snap0".
func ParseChannel(name string) (Channel, error) {
	for _, p := range parseOrder {
		rest, ok := strings.CutPrefix(name, p.prefix)
		if !ok || rest == "" {
			continue
		}
		index, err := strconv.Atoi(rest)
		if err != nil || index < 0 {
			continue
		}
		return Channel{Kind: p.kind, Index: index}, nil
	}
	return Channel{}, fmt.Errorf("sched: unrecognized channel name %q", name)
}
