package zonetemplate

import (
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
)

// Placeholders that can be used in template record names and contents.
const (
	PlaceholderZone       = "[ZONE]"
	PlaceholderSerial     = "[SERIAL]"
	PlaceholderNS1        = "[NS1]"
	PlaceholderNS2        = "[NS2]"
	PlaceholderNS3        = "[NS3]"
	PlaceholderNS4        = "[NS4]"
	PlaceholderHostmaster = "[HOSTMASTER]"
)

// Hint describes a placeholder for the add record form.
type Hint struct {
	Placeholder string
	Description string
}

// Hints lists the placeholders in the order they are shown to the user.
func Hints() []Hint {
	return []Hint{
		{PlaceholderZone, "substituted with current zone name"},
		{PlaceholderSerial, "substituted with current date and 2 numbers (YYYYMMDD + 00)"},
		{PlaceholderNS1, "substituted with 1st name server"},
		{PlaceholderNS2, "substituted with 2nd name server"},
		{PlaceholderNS3, "substituted with 3rd name server"},
		{PlaceholderNS4, "substituted with 4th name server"},
		{PlaceholderHostmaster, "substituted with hostmaster"},
	}
}

// Vars holds the values placeholders are replaced with.
type Vars struct {
	Zone       string
	Serial     string
	NS         [4]string
	Hostmaster string
}

// NewVars builds the substitution values for zone from the DNS config at time now.
func NewVars(zone string, cfg config.DNS, now time.Time) Vars {
	return Vars{
		Zone:       strings.TrimSuffix(dns.CanonicalName(zone), "."),
		Serial:     Serial(now),
		NS:         [4]string{cfg.NS1, cfg.NS2, cfg.NS3, cfg.NS4},
		Hostmaster: cfg.Hostmaster,
	}
}

// Serial returns the initial SOA serial for day t in YYYYMMDD00 form.
func Serial(t time.Time) string {
	return t.Format("20060102") + "00"
}

// Expand replaces every placeholder in s.
func (v Vars) Expand(s string) string {
	return strings.NewReplacer(
		PlaceholderZone, v.Zone,
		PlaceholderSerial, v.Serial,
		PlaceholderNS1, v.NS[0],
		PlaceholderNS2, v.NS[1],
		PlaceholderNS3, v.NS[2],
		PlaceholderNS4, v.NS[3],
		PlaceholderHostmaster, v.Hostmaster,
	).Replace(s)
}

// sampleVars fills every placeholder with a syntactically valid value so that
// template records can be checked before a real zone exists.
func sampleVars() Vars {
	return Vars{
		Zone:       "example.com",
		Serial:     "2000010100",
		NS:         [4]string{"ns1.example.com", "ns2.example.com", "ns3.example.com", "ns4.example.com"},
		Hostmaster: "hostmaster.example.com",
	}
}
