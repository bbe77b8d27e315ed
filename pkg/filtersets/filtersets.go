// Package filtersets declares query parameters of each collection.
package filtersets

import (
	"github.com/opst/voipinv/pkg/filters"
)

// Builder creates FilterSets of collections.
type Builder struct {
	// resolvers of hierarchies, for tree filters.
	RegionTree      filters.TreeResolver
	TenantGroupTree filters.TreeResolver

	// query value meaning "null".
	NullSentinel string
}

func text(field string) filters.MultiValue {
	return filters.NewMultiValue(field, filters.Text)
}

func integer(field string) filters.MultiValue {
	return filters.NewMultiValue(field, filters.Integer)
}

func tag() filters.MultiValue {
	return filters.MultiValue{Field: "tag.slug", Kind: filters.Text, Distinct: true}
}

func (b Builder) nullable(field string, kind filters.Kind) filters.Nullable {
	return filters.NewNullable(field, kind, b.NullSentinel)
}

func (b Builder) tree(field string, resolver filters.TreeResolver) filters.TreeNode {
	return filters.NewTreeNode(field, resolver, b.NullSentinel)
}

func (b Builder) Providers() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("slug", text("slug")).
		Add("account", b.nullable("account", filters.Text)).
		AddMultiValue("asn", integer("asn")).
		Add("q", filters.NewSearch("name", "slug", "account", "comments"))
}

func (b Builder) Circuits() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("cid", text("cid")).
		AddMultiValue("provider_id", integer("provider_id")).
		AddMultiValue("provider", text("provider.slug")).
		AddMultiValue("type", text("type")).
		AddMultiValue("status", text("status")).
		Add("tenant_id", b.nullable("tenant_id", filters.Integer)).
		AddMultiValue("install_date", filters.NewMultiValue("install_date", filters.Date)).
		AddMultiValue("commit_rate", integer("commit_rate")).
		AddMultiValue("maintenance_window", filters.NewMultiValue("maintenance_window", filters.Time)).
		AddMultiValue("created", filters.NewMultiValue("created", filters.Timestamp)).
		AddMultiValue("last_updated", filters.NewMultiValue("last_updated", filters.Timestamp)).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("cid", "description"))
}

func (b Builder) Tenants() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("slug", text("slug")).
		Add("group_id", b.tree("group_id", b.TenantGroupTree)).
		Add("group", b.tree("group_id", b.TenantGroupTree)).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("name", "slug", "description"))
}

// hierarchy is filters common in hierarchical collections.
func (b Builder) hierarchy(resolver filters.TreeResolver) *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("slug", text("slug")).
		Add("parent_id", b.nullable("parent_id", filters.Integer)).
		AddMultiValue("parent", text("parent.slug")).
		Add("ancestor_id", b.tree("id", resolver)).
		Add("ancestor", b.tree("id", resolver)).
		Add("q", filters.NewSearch("name", "slug", "description"))
}

func (b Builder) TenantGroups() *filters.FilterSet {
	return b.hierarchy(b.TenantGroupTree)
}

func (b Builder) Regions() *filters.FilterSet {
	return b.hierarchy(b.RegionTree)
}

func (b Builder) Sites() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("slug", text("slug")).
		Add("region_id", b.tree("region_id", b.RegionTree)).
		Add("region", b.tree("region_id", b.RegionTree)).
		Add("tenant_id", b.nullable("tenant_id", filters.Integer)).
		AddMultiValue("tenant", text("tenant.slug")).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("name", "slug", "description"))
}

func (b Builder) Racks() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		Add("facility_id", b.nullable("facility_id", filters.Text)).
		AddMultiValue("site_id", integer("site_id")).
		AddMultiValue("site", text("site.slug")).
		Add("region_id", b.tree("region_id", b.RegionTree)).
		Add("region", b.tree("region_id", b.RegionTree)).
		Add("tenant_id", b.nullable("tenant_id", filters.Integer)).
		AddMultiValue("u_height", integer("u_height")).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("name", "facility_id"))
}

func (b Builder) Services() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("protocol", text("protocol")).
		Add("port", filters.NewNumericArray("ports")).
		AddMultiValue("parent_kind", text("parent_kind")).
		Add("device_id", b.nullable("device_id", filters.Integer)).
		Add("virtual_machine_id", b.nullable("virtual_machine_id", filters.Integer)).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("name", "description"))
}

func (b Builder) VLANGroups() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("slug", text("slug")).
		Add("scope_type", filters.NewContentType("scope_type")).
		Add("scope_id", b.nullable("scope_id", filters.Integer)).
		Add("q", filters.NewSearch("name", "slug", "description"))
}

func (b Builder) Tags() *filters.FilterSet {
	contentType := filters.NewContentType("content_type")
	contentType.Distinct = true
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("slug", text("slug")).
		AddMultiValue("color", text("color")).
		Add("content_type", contentType).
		Add("q", filters.NewSearch("name", "slug", "description"))
}

func (b Builder) Numbers() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("number", text("number")).
		Add("provider_id", b.nullable("provider_id", filters.Integer)).
		AddMultiValue("provider", text("provider.slug")).
		Add("tenant_id", b.nullable("tenant_id", filters.Integer)).
		AddMultiValue("tenant", text("tenant.slug")).
		Add("region_id", b.tree("region_id", b.RegionTree)).
		Add("region", b.tree("region_id", b.RegionTree)).
		Add("forward_to_id", b.nullable("forward_to_id", filters.Integer)).
		AddMultiValue("created", filters.NewMultiValue("created", filters.Timestamp)).
		AddMultiValue("last_updated", filters.NewMultiValue("last_updated", filters.Timestamp)).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("number", "description"))
}

func (b Builder) VoiceCircuits() *filters.FilterSet {
	return filters.NewFilterSet().
		AddMultiValue("id", integer("id")).
		AddMultiValue("name", text("name")).
		AddMultiValue("voice_circuit_type", text("voice_circuit_type")).
		Add("circuit_id", b.nullable("circuit_id", filters.Integer)).
		Add("provider_id", b.nullable("provider_id", filters.Integer)).
		Add("tenant_id", b.nullable("tenant_id", filters.Integer)).
		Add("region_id", b.tree("region_id", b.RegionTree)).
		Add("region", b.tree("region_id", b.RegionTree)).
		AddMultiValue("sip_source", filters.NewMultiValue("sip_source", filters.Address)).
		AddMultiValue("sip_target", filters.NewMultiValue("sip_target", filters.Address)).
		Add("assigned_object_type", filters.NewContentType("assigned_object_type")).
		Add("assigned_object_id", b.nullable("assigned_object_id", filters.Integer)).
		AddMultiValue("created", filters.NewMultiValue("created", filters.Timestamp)).
		AddMultiValue("last_updated", filters.NewMultiValue("last_updated", filters.Timestamp)).
		AddMultiValue("tag", tag()).
		Add("q", filters.NewSearch("name", "description"))
}
