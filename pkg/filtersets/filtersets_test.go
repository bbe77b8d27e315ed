package filtersets_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/opst/voipinv/pkg/cmp"
	"github.com/opst/voipinv/pkg/filters"
	"github.com/opst/voipinv/pkg/filters/query/eval"
	"github.com/opst/voipinv/pkg/filtersets"
	"github.com/opst/voipinv/pkg/utils/pointer"
	"github.com/opst/voipinv/pkg/utils/try"
)

func builder() filtersets.Builder {
	regions := filters.NewTree().
		Add(1, "asia", nil).
		Add(2, "japan", pointer.Ref[int64](1)).
		Add(3, "europe", nil)
	groups := filters.NewTree().Add(1, "carriers", nil)
	return filtersets.Builder{RegionTree: regions, TenantGroupTree: groups, NullSentinel: "null"}
}

func inet(t *testing.T, s string) any {
	t.Helper()
	return try.To(filters.Address.Parse(s)).OrFatal(t)
}

func found(t *testing.T, fs *filters.FilterSet, raw string, records []eval.Map) []int64 {
	t.Helper()
	params := try.To(url.ParseQuery(raw)).OrFatal(t)
	c := try.To(fs.Apply(context.Background(), params)).OrFatal(t)
	rs := try.To(eval.Filter(c, records)).OrFatal(t)
	ids := make([]int64, len(rs))
	for i, r := range rs {
		ids[i] = r["id"].(int64)
	}
	return ids
}

func TestBuilder_AllCollectionsAreDeclarable(t *testing.T) {
	b := builder()
	for name, build := range map[string]func() *filters.FilterSet{
		"providers":      b.Providers,
		"circuits":       b.Circuits,
		"tenants":        b.Tenants,
		"tenant-groups":  b.TenantGroups,
		"regions":        b.Regions,
		"sites":          b.Sites,
		"racks":          b.Racks,
		"services":       b.Services,
		"vlan-groups":    b.VLANGroups,
		"tags":           b.Tags,
		"numbers":        b.Numbers,
		"voice-circuits": b.VoiceCircuits,
	} {
		t.Run(name, func(t *testing.T) {
			fs := build()
			for _, p := range []string{"id", "id__n", "id__gte", "q"} {
				if !fs.Has(p) {
					t.Errorf("%s is not declared", p)
				}
			}
			for _, p := range []string{"limit", "offset"} {
				if fs.Has(p) {
					t.Errorf("pagination parameter %s is declared as filter", p)
				}
			}
			for _, p := range []string{"tag__n", "tag__nic", "tag__nisw", "tag__niew"} {
				if fs.Has(p) {
					t.Errorf("negated lookup over tags %s is declared", p)
				}
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	fs := builder().Numbers()
	records := []eval.Map{
		{
			"id": int64(1), "number": "+81300000001", "description": "",
			"provider_id": pointer.Ref[int64](1), "provider.slug": "carrier",
			"tenant_id": pointer.Ref[int64](1), "tenant.slug": "acme",
			"region_id": pointer.Ref[int64](2), "forward_to_id": (*int64)(nil),
			"tag.slug": []string{"core"},
		},
		{
			"id": int64(2), "number": "+81300000002", "description": "fax",
			"provider_id": pointer.Ref[int64](1), "provider.slug": "carrier",
			"tenant_id": (*int64)(nil), "tenant.slug": (*string)(nil),
			"region_id": pointer.Ref[int64](3), "forward_to_id": pointer.Ref[int64](1),
			"tag.slug": []string{},
		},
		{
			"id": int64(3), "number": "+442000000003", "description": "",
			"provider_id": (*int64)(nil), "provider.slug": (*string)(nil),
			"tenant_id": (*int64)(nil), "tenant.slug": (*string)(nil),
			"region_id": (*int64)(nil), "forward_to_id": (*int64)(nil),
			"tag.slug": []string{"core", "lab"},
		},
	}

	for raw, want := range map[string][]int64{
		"":                                     {1, 2, 3},
		"region=asia":                          {1},
		"region=asia&region=null":              {1, 3},
		"region_id=mars":                       {},
		"tenant_id=null":                       {2, 3},
		"tenant_id=acme":                       {},
		"forward_to_id=1":                      {2},
		"provider=carrier&number__isw=%2B8130": {1, 2},
		"number__n=%2B81300000001":             {2, 3},
		"tag=lab&tag=core":                     {1, 3},
		"tag__ic=LA":                           {3},
		"tag__n=core":                          {1, 2, 3},
		"q=FAX":                                {2},
		"limit=1&offset=1":                     {1, 2, 3},
	} {
		t.Run(raw, func(t *testing.T) {
			if got := found(t, fs, raw, records); !cmp.SliceContentEq(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestVoiceCircuits(t *testing.T) {
	fs := builder().VoiceCircuits()
	records := []eval.Map{
		{
			"id": int64(1), "name": "trunk-1", "description": "", "voice_circuit_type": "sip-trunk",
			"region_id": pointer.Ref[int64](2),
			"sip_source": inet(t, "192.0.2.1/32"), "sip_target": inet(t, "198.51.100.0/24"),
			"assigned_object_type.app_label": "dcim", "assigned_object_type.model": "device",
			"assigned_object_id": pointer.Ref[int64](7),
			"tag.slug": []string{},
		},
		{
			"id": int64(2), "name": "pri-1", "description": "", "voice_circuit_type": "pri",
			"region_id": (*int64)(nil),
			"sip_source": nil, "sip_target": nil,
			"assigned_object_type.app_label": (*string)(nil), "assigned_object_type.model": (*string)(nil),
			"assigned_object_id": (*int64)(nil),
			"tag.slug": []string{"lab"},
		},
	}

	for raw, want := range map[string][]int64{
		"assigned_object_type=DCIM.device":                 {1},
		"assigned_object_type=device":                      {},
		"assigned_object_type=a.b.c":                       {},
		"assigned_object_id=null":                          {2},
		"sip_source=192.0.2.1":                             {1},
		"sip_source=not-an-address":                        {1, 2},
		"voice_circuit_type=pri&voice_circuit_type=analog": {2},
		"region=japan":                                     {1},
		"tag=lab":                                          {2},
	} {
		t.Run(raw, func(t *testing.T) {
			if got := found(t, fs, raw, records); !cmp.SliceContentEq(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestServices(t *testing.T) {
	fs := builder().Services()
	records := []eval.Map{
		{"id": int64(1), "name": "sip", "description": "", "protocol": "udp", "ports": []int32{5060, 5061}},
		{"id": int64(2), "name": "rtp", "description": "", "protocol": "udp", "ports": []int32{10000}},
	}

	for raw, want := range map[string][]int64{
		"port=5061":               {1},
		"port=sip":                {1, 2},
		"port=1":                  {},
		"protocol=udp&port=10000": {2},
	} {
		t.Run(raw, func(t *testing.T) {
			if got := found(t, fs, raw, records); !cmp.SliceContentEq(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestTags_ContentTypeIsDistinct(t *testing.T) {
	fs := builder().Tags()
	params := try.To(url.ParseQuery("content_type=voip.number")).OrFatal(t)
	c := try.To(fs.Apply(context.Background(), params)).OrFatal(t)
	if !c.Distinct {
		t.Errorf("content_type filter of tags should be distinct: %s", c)
	}
}
