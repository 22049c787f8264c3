package zonetemplate

import (
	"strconv"
	"strings"

	pdnsapi "github.com/joeig/go-powerdns/v3"
	"github.com/miekg/dns"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// BuildRRsets expands the records of a template for a zone and groups them
// into PowerDNS RRsets, one per name and type. Each RRset replaces whatever
// the zone held before. The TTL of an RRset is the lowest TTL of its records.
func BuildRRsets(records []models.ZoneTemplateRecord, vars Vars) *pdnsapi.RRsets {
	type key struct{ name, rrType string }

	var (
		order []key
		sets  = make(map[key]*pdnsapi.RRset)
	)

	for _, rec := range records {
		name := dns.CanonicalName(vars.Expand(rec.Name))
		rrType := strings.ToUpper(rec.Type)
		content := canonicalContent(rrType, vars.Expand(rec.Content))

		if needsPriority(rrType) {
			content = strconv.FormatUint(uint64(rec.Prio), 10) + " " + content
		}

		k := key{name, rrType}

		set, ok := sets[k]
		if !ok {
			n := name
			t := pdnsapi.RRType(rrType)
			ct := pdnsapi.ChangeTypeReplace
			ttl := rec.TTL
			set = &pdnsapi.RRset{
				Name:       &n,
				Type:       &t,
				TTL:        &ttl,
				ChangeType: &ct,
			}
			sets[k] = set
			order = append(order, k)
		}

		if rec.TTL < *set.TTL {
			*set.TTL = rec.TTL
		}

		c := content
		disabled := false
		set.Records = append(set.Records, pdnsapi.Record{Content: &c, Disabled: &disabled})
	}

	out := &pdnsapi.RRsets{Sets: make([]pdnsapi.RRset, 0, len(order))}
	for _, k := range order {
		out.Sets = append(out.Sets, *sets[k])
	}

	return out
}

// canonicalContent makes the host name fields of content fully qualified.
func canonicalContent(rrType, content string) string {
	idx, ok := hostnameFields[rrType]
	if !ok {
		return content
	}

	fields := strings.Fields(content)
	if len(fields) == 0 {
		return content
	}

	for _, i := range idx {
		if i < 0 {
			i = len(fields) + i
		}

		if i >= 0 && i < len(fields) {
			fields[i] = dns.Fqdn(fields[i])
		}
	}

	return strings.Join(fields, " ")
}
