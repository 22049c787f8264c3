package zonetemplate

import (
	"testing"
	"time"

	pdnsapi "github.com/joeig/go-powerdns/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

func contents(set pdnsapi.RRset) []string {
	out := make([]string, 0, len(set.Records))
	for _, r := range set.Records {
		out = append(out, *r.Content)
	}

	return out
}

func TestBuildRRsets(t *testing.T) {
	vars := NewVars("example.org", testDNS, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))

	records := []models.ZoneTemplateRecord{
		{Name: "[ZONE]", Type: "NS", Content: "[NS1]", TTL: 86400},
		{Name: "www.[ZONE]", Type: "a", Content: "192.0.2.1", TTL: 300},
		{Name: "[ZONE]", Type: "NS", Content: "[NS2]", TTL: 3600},
		{Name: "[ZONE]", Type: "MX", Content: "mail.[ZONE]", TTL: 3600, Prio: 10},
		{Name: "[ZONE]", Type: "SOA", Content: "[NS1] [HOSTMASTER] [SERIAL] 28800 7200 604800 86400", TTL: 86400},
	}

	sets := BuildRRsets(records, vars)
	require.Len(t, sets.Sets, 4)

	ns := sets.Sets[0]
	assert.Equal(t, "example.org.", *ns.Name)
	assert.Equal(t, pdnsapi.RRType("NS"), *ns.Type)
	assert.Equal(t, uint32(3600), *ns.TTL, "lowest ttl of the set wins")
	assert.Equal(t, pdnsapi.ChangeTypeReplace, *ns.ChangeType)
	assert.Equal(t, []string{"ns1.example.net.", "ns2.example.net."}, contents(ns))

	a := sets.Sets[1]
	assert.Equal(t, "www.example.org.", *a.Name)
	assert.Equal(t, pdnsapi.RRType("A"), *a.Type)
	assert.Equal(t, []string{"192.0.2.1"}, contents(a))
	assert.False(t, *a.Records[0].Disabled)

	mx := sets.Sets[2]
	assert.Equal(t, []string{"10 mail.example.org."}, contents(mx))

	soa := sets.Sets[3]
	assert.Equal(t,
		[]string{"ns1.example.net. hostmaster.example.net. 2026101700 28800 7200 604800 86400"},
		contents(soa))
}

func TestBuildRRsetsEmpty(t *testing.T) {
	sets := BuildRRsets(nil, NewVars("example.org", testDNS, time.Now()))
	assert.Empty(t, sets.Sets)
}
