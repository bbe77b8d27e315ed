// Package inventory is JSON representations of records which VOIP resources refer:
// providers, circuits, tenancy, regions, sites, racks, services, VLAN groups and tags.
package inventory

import (
	"time"

	"github.com/opst/voipinv/pkg/api/types/refs"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils/rfctime"
)

type Provider struct {
	Id       int64      `json:"id"`
	URL      string     `json:"url"`
	Display  string     `json:"display"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Account  *string    `json:"account"`
	Asn      *int64     `json:"asn"`
	Comments string     `json:"comments"`
	Tags     []refs.Tag `json:"tags"`
}

func ComposeProvider(p kdb.Provider) Provider {
	return Provider{
		Id:       p.Id,
		URL:      refs.URL(refs.Providers, p.Id),
		Display:  p.Name,
		Name:     p.Name,
		Slug:     p.Slug,
		Account:  p.Account,
		Asn:      p.Asn,
		Comments: p.Comments,
		Tags:     refs.ComposeTags(p.Tags),
	}
}

type Circuit struct {
	Id                int64           `json:"id"`
	URL               string          `json:"url"`
	Display           string          `json:"display"`
	Cid               string          `json:"cid"`
	Provider          refs.Brief      `json:"provider"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	Tenant            *refs.Brief     `json:"tenant"`
	InstallDate       *string         `json:"install_date"`
	CommitRate        *int64          `json:"commit_rate"`
	MaintenanceWindow *string         `json:"maintenance_window"`
	Description       string          `json:"description"`
	Created           rfctime.RFC3339 `json:"created"`
	LastUpdated       rfctime.RFC3339 `json:"last_updated"`
	Tags              []refs.Tag      `json:"tags"`
}

// DateLayout is the format of dates in JSON.
const DateLayout = time.DateOnly

func ComposeCircuit(c kdb.Circuit) Circuit {
	var installDate *string
	if c.InstallDate != nil {
		d := c.InstallDate.Format(DateLayout)
		installDate = &d
	}
	return Circuit{
		Id:                c.Id,
		URL:               refs.URL(refs.Circuits, c.Id),
		Display:           c.Cid,
		Cid:               c.Cid,
		Provider:          *refs.ComposeBrief(refs.Providers, &c.Provider),
		Type:              c.Type,
		Status:            c.Status,
		Tenant:            refs.ComposeBrief(refs.Tenants, c.Tenant),
		InstallDate:       installDate,
		CommitRate:        c.CommitRate,
		MaintenanceWindow: c.MaintenanceWindow,
		Description:       c.Description,
		Created:           rfctime.RFC3339(c.Created),
		LastUpdated:       rfctime.RFC3339(c.LastUpdated),
		Tags:              refs.ComposeTags(c.Tags),
	}
}

// Node is a record in hierarchy: regions and tenant groups.
type Node struct {
	Id          int64       `json:"id"`
	URL         string      `json:"url"`
	Display     string      `json:"display"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Parent      *refs.Brief `json:"parent"`
	Description string      `json:"description"`
}

func ComposeRegion(r kdb.Region) Node {
	return Node{
		Id:          r.Id,
		URL:         refs.URL(refs.Regions, r.Id),
		Display:     r.Name,
		Name:        r.Name,
		Slug:        r.Slug,
		Parent:      refs.ComposeBrief(refs.Regions, r.Parent),
		Description: r.Description,
	}
}

func ComposeTenantGroup(g kdb.TenantGroup) Node {
	return Node{
		Id:          g.Id,
		URL:         refs.URL(refs.TenantGroups, g.Id),
		Display:     g.Name,
		Name:        g.Name,
		Slug:        g.Slug,
		Parent:      refs.ComposeBrief(refs.TenantGroups, g.Parent),
		Description: g.Description,
	}
}

type Tenant struct {
	Id          int64       `json:"id"`
	URL         string      `json:"url"`
	Display     string      `json:"display"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Group       *refs.Brief `json:"group"`
	Description string      `json:"description"`
	Tags        []refs.Tag  `json:"tags"`
}

func ComposeTenant(t kdb.Tenant) Tenant {
	return Tenant{
		Id:          t.Id,
		URL:         refs.URL(refs.Tenants, t.Id),
		Display:     t.Name,
		Name:        t.Name,
		Slug:        t.Slug,
		Group:       refs.ComposeBrief(refs.TenantGroups, t.Group),
		Description: t.Description,
		Tags:        refs.ComposeTags(t.Tags),
	}
}

type Site struct {
	Id          int64       `json:"id"`
	URL         string      `json:"url"`
	Display     string      `json:"display"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Region      *refs.Brief `json:"region"`
	Tenant      *refs.Brief `json:"tenant"`
	Description string      `json:"description"`
	Tags        []refs.Tag  `json:"tags"`
}

func ComposeSite(s kdb.Site) Site {
	return Site{
		Id:          s.Id,
		URL:         refs.URL(refs.Sites, s.Id),
		Display:     s.Name,
		Name:        s.Name,
		Slug:        s.Slug,
		Region:      refs.ComposeBrief(refs.Regions, s.Region),
		Tenant:      refs.ComposeBrief(refs.Tenants, s.Tenant),
		Description: s.Description,
		Tags:        refs.ComposeTags(s.Tags),
	}
}

type Rack struct {
	Id         int64       `json:"id"`
	URL        string      `json:"url"`
	Display    string      `json:"display"`
	Name       string      `json:"name"`
	FacilityId *string     `json:"facility_id"`
	Site       refs.Brief  `json:"site"`
	Region     *refs.Brief `json:"region"`
	Tenant     *refs.Brief `json:"tenant"`
	UHeight    int32       `json:"u_height"`
	Tags       []refs.Tag  `json:"tags"`
}

func ComposeRack(r kdb.Rack) Rack {
	return Rack{
		Id:         r.Id,
		URL:        refs.URL(refs.Racks, r.Id),
		Display:    r.Name,
		Name:       r.Name,
		FacilityId: r.FacilityId,
		Site:       *refs.ComposeBrief(refs.Sites, &r.Site),
		Region:     refs.ComposeBrief(refs.Regions, r.Region),
		Tenant:     refs.ComposeBrief(refs.Tenants, r.Tenant),
		UHeight:    r.UHeight,
		Tags:       refs.ComposeTags(r.Tags),
	}
}

type Service struct {
	Id             int64       `json:"id"`
	URL            string      `json:"url"`
	Display        string      `json:"display"`
	Name           string      `json:"name"`
	Protocol       string      `json:"protocol"`
	Ports          []int32     `json:"ports"`
	Device         *refs.Brief `json:"device"`
	VirtualMachine *refs.Brief `json:"virtual_machine"`
	ParentKind     string      `json:"parent_kind"`
	Description    string      `json:"description"`
	Tags           []refs.Tag  `json:"tags"`
}

func ComposeService(s kdb.Service) Service {
	ports := s.Ports
	if ports == nil {
		ports = []int32{}
	}
	return Service{
		Id:             s.Id,
		URL:            refs.URL(refs.Services, s.Id),
		Display:        s.Name,
		Name:           s.Name,
		Protocol:       s.Protocol,
		Ports:          ports,
		Device:         refs.ComposeBrief(refs.Devices, s.Device),
		VirtualMachine: refs.ComposeBrief(refs.VirtualMachines, s.VirtualMachine),
		ParentKind:     string(s.ParentKind),
		Description:    s.Description,
		Tags:           refs.ComposeTags(s.Tags),
	}
}

// ServicePayload is a request body to create or update a service.
type ServicePayload struct {
	Name           string  `json:"name"`
	Protocol       string  `json:"protocol"`
	Ports          []int32 `json:"ports"`
	Device         *int64  `json:"device"`
	VirtualMachine *int64  `json:"virtual_machine"`
	Description    string  `json:"description"`

	// slugs of tags
	Tags []string `json:"tags"`
}

func (p ServicePayload) Spec() kdb.ServiceSpec {
	return kdb.ServiceSpec{
		Name:             p.Name,
		Protocol:         p.Protocol,
		Ports:            p.Ports,
		DeviceId:         p.Device,
		VirtualMachineId: p.VirtualMachine,
		Description:      p.Description,
		Tags:             p.Tags,
	}
}

type VLANGroup struct {
	Id          int64             `json:"id"`
	URL         string            `json:"url"`
	Display     string            `json:"display"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	ScopeType   *refs.ContentType `json:"scope_type"`
	ScopeId     *int64            `json:"scope_id"`
	Description string            `json:"description"`
}

func ComposeVLANGroup(g kdb.VLANGroup) VLANGroup {
	return VLANGroup{
		Id:          g.Id,
		URL:         refs.URL(refs.VLANGroups, g.Id),
		Display:     g.Name,
		Name:        g.Name,
		Slug:        g.Slug,
		ScopeType:   refs.ComposeContentType(g.ScopeType),
		ScopeId:     g.ScopeId,
		Description: g.Description,
	}
}

type Tag struct {
	refs.Tag
	Description string `json:"description"`
}

func ComposeTag(t kdb.Tag) Tag {
	return Tag{Tag: refs.ComposeTag(t), Description: t.Description}
}
