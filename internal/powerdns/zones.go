package powerdns

import (
	"context"

	pdnsapi "github.com/joeig/go-powerdns/v3"
)

// Zone kinds accepted by the PowerDNS API.
const (
	ZoneKindNative = "Native"
	ZoneKindMaster = "Master"
	ZoneKindSlave  = "Slave"
)

// ZoneStore creates zones and writes their RRsets through the PowerDNS API.
type ZoneStore struct{}

// Create adds zone to PowerDNS. masters is only used for slave zones.
func (ZoneStore) Create(ctx context.Context, zone, kind, soaEditAPI string, masters []string) error {
	if Engine.Client == nil {
		return ErrClientNotInitialized
	}

	var (
		nameservers []string
		err         error
	)

	switch kind {
	case ZoneKindMaster:
		_, err = Engine.Zones.AddMaster(ctx, zone, false, "", false, "", soaEditAPI, false, nameservers)
	case ZoneKindSlave:
		_, err = Engine.Zones.AddSlave(ctx, zone, masters)
	default:
		_, err = Engine.Zones.AddNative(ctx, zone, false, "", false, "", soaEditAPI, false, nameservers)
	}

	return err
}

// Patch applies sets to zone.
func (ZoneStore) Patch(ctx context.Context, zone string, sets *pdnsapi.RRsets) error {
	if Engine.Client == nil {
		return ErrClientNotInitialized
	}

	return Engine.Records.Patch(ctx, zone, sets)
}

// Delete removes zone from PowerDNS.
func (ZoneStore) Delete(ctx context.Context, zone string) error {
	if Engine.Client == nil {
		return ErrClientNotInitialized
	}

	return Engine.Zones.Delete(ctx, zone)
}
