package dnssec

import (
	"strconv"
	"strings"

	pdnsapi "github.com/joeig/go-powerdns/v3"
	"github.com/miekg/dns"
)

// Key is a DNSSEC zone key as shown to the user.
type Key struct {
	ID        uint64
	Type      string // ksk, zsk or csk
	Tag       uint16
	Algorithm string
	Bits      uint64
	Active    bool
	DNSKey    string
	DS        []string
}

// ActiveLabel renders the active flag as Yes or No.
func (k Key) ActiveLabel() string {
	if k.Active {
		return "Yes"
	}

	return "No"
}

// FromCryptokey converts a PowerDNS cryptokey of zone into a Key.
func FromCryptokey(zone string, ck *pdnsapi.Cryptokey) Key {
	if ck == nil {
		return Key{}
	}

	k := Key{
		ID:     deref(ck.ID),
		Type:   strings.ToLower(deref(ck.KeyType)),
		Bits:   deref(ck.Bits),
		Active: deref(ck.Active),
		DNSKey: deref(ck.DNSkey),
		DS:     ck.DS,
	}

	rr := parseDNSKEY(zone, k.DNSKey)
	if rr != nil {
		k.Tag = rr.KeyTag()
	}

	switch {
	case ck.Algorithm != nil && *ck.Algorithm != "":
		k.Algorithm = AlgorithmToName(*ck.Algorithm)
	case rr != nil:
		k.Algorithm = AlgorithmToName(strconv.Itoa(int(rr.Algorithm)))
	}

	return k
}

// AlgorithmToName returns the mnemonic of a DNSSEC algorithm. Numeric
// input is looked up in the IANA registry, names are normalised to upper
// case. Unknown numbers are returned unchanged.
func AlgorithmToName(algorithm string) string {
	algorithm = strings.TrimSpace(algorithm)

	n, err := strconv.ParseUint(algorithm, 10, 8)
	if err != nil {
		return strings.ToUpper(algorithm)
	}

	if name, ok := dns.AlgorithmToString[uint8(n)]; ok {
		return name
	}

	return algorithm
}

func parseDNSKEY(zone, dnskey string) *dns.DNSKEY {
	if dnskey == "" {
		return nil
	}

	if zone == "" {
		zone = "."
	}

	rr, err := dns.NewRR(dns.Fqdn(zone) + " IN DNSKEY " + dnskey)
	if err != nil {
		return nil
	}

	key, ok := rr.(*dns.DNSKEY)
	if !ok {
		return nil
	}

	return key
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
