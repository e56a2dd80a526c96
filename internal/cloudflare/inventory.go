package cloudflare

import cloudflare "github.com/cloudflare/cloudflare-go"

// Inventory is the ordered list of A and CNAME records of a zone.
type Inventory []cloudflare.DNSRecord

// Hostnames returns the record names in inventory order.
func (inv Inventory) Hostnames() []string {
	names := make([]string, 0, len(inv))
	for _, r := range inv {
		names = append(names, r.Name)
	}
	return names
}

// Has reports whether host is the name of any record.
func (inv Inventory) Has(host string) bool {
	for _, r := range inv {
		if r.Name == host {
			return true
		}
	}
	return false
}

// CountByType counts records per record type.
func (inv Inventory) CountByType() map[string]int {
	counts := map[string]int{}
	for _, r := range inv {
		counts[r.Type]++
	}
	return counts
}
