package zonetemplate

import (
	"slices"
	"strings"

	"github.com/miekg/dns"
)

// DefaultType is preselected in the add record form.
const DefaultType = "A"

// recordTypes are the types offered for template records, in display order.
var recordTypes = []string{ //nolint:gochecknoglobals
	"A", "AAAA", "AFSDB", "ALIAS", "CAA", "CERT", "CDNSKEY", "CDS", "CNAME", "DHCID",
	"DLV", "DNAME", "DNSKEY", "DS", "EUI48", "EUI64", "HINFO", "HTTPS", "IPSECKEY", "KEY",
	"KX", "L32", "L64", "LOC", "LP", "MAILA", "MAILB", "MINFO", "MR", "MX", "NAPTR", "NID",
	"NS", "NSEC", "NSEC3", "NSEC3PARAM", "OPENPGPKEY", "PTR", "RKEY", "RP", "RRSIG", "SIG",
	"SMIMEA", "SOA", "SPF", "SRV", "SSHFP", "SVCB", "TKEY", "TLSA", "TSIG", "TXT", "URI",
	"WKS",
}

// RecordTypes returns the supported record types.
func RecordTypes() []string {
	return slices.Clone(recordTypes)
}

// IsKnownType reports whether t is a supported record type. Case is ignored.
func IsKnownType(t string) bool {
	return slices.Contains(recordTypes, strings.ToUpper(t))
}

// TypeOption is one entry of the record type selector.
type TypeOption struct {
	Value    string
	Selected bool
	// Custom marks a posted type that is not in the supported list.
	Custom bool
}

// TypeOptions builds the record type selector. The posted type is selected;
// when it is unknown it is appended so the user can still see it. Without a
// posted type, PTR is preselected for reverse zones and A otherwise.
func TypeOptions(posted, zoneName string) []TypeOption {
	posted = strings.ToUpper(strings.TrimSpace(posted))
	opts := make([]TypeOption, 0, len(recordTypes)+1)

	want := DefaultType
	if posted == "" && isReverseZone(zoneName) {
		want = "PTR"
	}

	found := false

	for _, t := range recordTypes {
		sel := false

		if posted != "" {
			sel = posted == t
		} else {
			sel = want == t
		}

		found = found || sel
		opts = append(opts, TypeOption{Value: t, Selected: sel})
	}

	if posted != "" && !found {
		opts = append(opts, TypeOption{Value: posted, Selected: true, Custom: true})
	}

	return opts
}

func isReverseZone(name string) bool {
	name = strings.ToLower(dns.Fqdn(name))

	return strings.HasSuffix(name, ".in-addr.arpa.") || strings.HasSuffix(name, ".ip6.arpa.")
}

// hostnameFields gives, per type, the index of content fields that name a host
// and must be fully qualified for PowerDNS. -1 means the last field.
var hostnameFields = map[string][]int{ //nolint:gochecknoglobals
	"NS":    {0},
	"CNAME": {0},
	"PTR":   {0},
	"DNAME": {0},
	"ALIAS": {0},
	"MX":    {-1},
	"SRV":   {-1},
	"SOA":   {0, 1},
}

// needsPriority reports whether PowerDNS expects the priority in front of the content.
func needsPriority(t string) bool {
	return t == "MX" || t == "SRV"
}
