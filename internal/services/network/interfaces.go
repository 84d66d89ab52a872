// Package network lists the broadcast addresses the Art-Net sink can target.
package network

import (
	"fmt"
	"net"
	"strings"
)

// Interface kinds, in the order targets are listed.
const (
	KindEthernet  = "ethernet"
	KindWifi      = "wifi"
	KindOther     = "other"
	KindLocalhost = "localhost"
	KindGlobal    = "global"
)

// BroadcastTarget is one address the DMX output can be broadcast to.
type BroadcastTarget struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Broadcast   string `json:"broadcast"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// ClassifyInterface guesses the interface kind from its name.
func ClassifyInterface(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "wlan"), strings.HasPrefix(name, "wl"),
		strings.Contains(name, "wifi"), strings.Contains(name, "wireless"):
		return KindWifi
	case name == "en0":
		// en0 is the built-in Wi-Fi on most Macs
		return KindWifi
	case strings.HasPrefix(name, "eth"), strings.HasPrefix(name, "en"):
		return KindEthernet
	default:
		return KindOther
	}
}

func kindIcon(kind string) string {
	switch kind {
	case KindWifi:
		return "📶"
	case KindEthernet:
		return "🌐"
	case KindLocalhost:
		return "🏠"
	case KindGlobal:
		return "🌍"
	default:
		return "📡"
	}
}

// BroadcastAddress computes the IPv4 broadcast address of ip/mask.
// It returns nil for non-IPv4 input.
func BroadcastAddress(ip net.IP, mask net.IPMask) net.IP {
	ip4 := ip.To4()
	if ip4 == nil || mask == nil {
		return nil
	}
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	if len(mask) != net.IPv4len {
		return nil
	}

	broadcast := make(net.IP, net.IPv4len)
	for i := range broadcast {
		broadcast[i] = ip4[i] | ^mask[i]
	}
	return broadcast
}

// targetsFromAddrs builds the targets of one interface.
func targetsFromAddrs(ifaceName string, addrs []net.Addr) []BroadcastTarget {
	var targets []BroadcastTarget
	kind := ClassifyInterface(ifaceName)
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		broadcast := BroadcastAddress(ipNet.IP, ipNet.Mask)
		// point-to-point links have no usable broadcast
		if broadcast == nil || broadcast.Equal(ipNet.IP) {
			continue
		}
		targets = append(targets, BroadcastTarget{
			Name:        ifaceName + "-broadcast",
			Address:     ipNet.IP.To4().String(),
			Broadcast:   broadcast.String(),
			Description: fmt.Sprintf("%s %s broadcast (%s)", kindIcon(kind), ifaceName, broadcast),
			Kind:        kind,
		})
	}
	return targets
}

// sortTargets orders targets ethernet first, then wifi, then everything
// else, and appends the localhost and global broadcast entries.
func sortTargets(found []BroadcastTarget) []BroadcastTarget {
	out := make([]BroadcastTarget, 0, len(found)+2)
	for _, kind := range []string{KindEthernet, KindWifi, KindOther} {
		for _, t := range found {
			if t.Kind == kind {
				out = append(out, t)
			}
		}
	}
	out = append(out,
		BroadcastTarget{
			Name:        "localhost",
			Address:     "127.0.0.1",
			Broadcast:   "127.0.0.1",
			Description: kindIcon(KindLocalhost) + " Localhost (for testing only)",
			Kind:        KindLocalhost,
		},
		BroadcastTarget{
			Name:        "global-broadcast",
			Address:     "0.0.0.0",
			Broadcast:   "255.255.255.255",
			Description: kindIcon(KindGlobal) + " Global broadcast (255.255.255.255)",
			Kind:        KindGlobal,
		},
	)
	return out
}

// BroadcastTargets lists the broadcast address of every IPv4 interface
// that is up, followed by localhost and the global broadcast.
func BroadcastTargets() ([]BroadcastTarget, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	var found []BroadcastTarget
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		found = append(found, targetsFromAddrs(iface.Name, addrs)...)
	}
	return sortTargets(found), nil
}
