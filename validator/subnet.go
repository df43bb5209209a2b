package validator

import (
	"encoding/binary"
	"fmt"
	"net"
	"regexp"
)

var cidrPattern = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}/\d{1,2}\b`)

// NetworkSummary describes one parsed network.
type NetworkSummary struct {
	CIDR         string `json:"cidr"`
	Network      string `json:"network"`
	PrefixLength int    `json:"prefix_length"`
	FirstHost    string `json:"first_host"`
	LastHost     string `json:"last_host"`
	Broadcast    string `json:"broadcast,omitempty"`
}

// Run validates the extracted final answer for the given domain. It returns
// nil when no validator is registered for the domain. A missing final answer
// is an indeterminate result, not an error.
func Run(domain, finalAnswer string) *Verdict {
	fn, ok := ForDomain(domain)
	if !ok {
		return nil
	}
	if finalAnswer == "" {
		return &Verdict{OK: false, Reason: fmt.Sprintf("Final answer missing for %s validation.", domain)}
	}
	v := fn(finalAnswer)
	return &v
}

// ValidateSubnets scans text for CIDR notation and reports a summary for
// every network found. Host bits in the token are tolerated; the summary
// always describes the containing network.
func ValidateSubnets(text string) Verdict {
	tokens := cidrPattern.FindAllString(text, -1)
	if len(tokens) == 0 {
		return Verdict{OK: false, Reason: "No CIDR networks detected in answer."}
	}

	summaries := make([]NetworkSummary, 0, len(tokens))
	for _, token := range tokens {
		_, network, err := net.ParseCIDR(token)
		if err != nil {
			return Verdict{OK: false, Reason: fmt.Sprintf("Invalid CIDR '%s': %v", token, err)}
		}
		summaries = append(summaries, summarize(network))
	}

	return Verdict{OK: true, Networks: summaries}
}

func summarize(network *net.IPNet) NetworkSummary {
	ones, bits := network.Mask.Size()
	summary := NetworkSummary{
		CIDR:         network.String(),
		Network:      network.IP.String(),
		PrefixLength: ones,
	}

	v4 := network.IP.To4()
	if v4 == nil {
		summary.FirstHost = network.IP.String()
		summary.LastHost = network.IP.String()
		return summary
	}

	base := binary.BigEndian.Uint32(v4)
	broadcast := base | (1<<uint(bits-ones) - 1)
	summary.Broadcast = formatV4(broadcast)

	// /31 and /32 have no distinct usable-host range.
	if bits-ones <= 1 {
		summary.FirstHost = formatV4(base)
		summary.LastHost = formatV4(broadcast)
		return summary
	}

	summary.FirstHost = formatV4(base + 1)
	summary.LastHost = formatV4(broadcast - 1)
	return summary
}

func formatV4(addr uint32) string {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], addr)
	return net.IP(buf[:]).String()
}
