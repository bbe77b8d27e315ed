// Package refs is JSON representations shared by resources: links, brief references and tags.
package refs

import (
	"fmt"

	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils"
)

// APIRoot is the path prefix of resources.
const APIRoot = "/api"

// collection names, as path segments.
const (
	Providers     = "providers"
	Circuits      = "circuits"
	Tenants       = "tenants"
	TenantGroups  = "tenant-groups"
	Regions       = "regions"
	Sites         = "sites"
	Racks         = "racks"
	Services      = "services"
	VLANGroups    = "vlan-groups"
	Tags          = "tags"
	Numbers       = "numbers"
	VoiceCircuits = "voice-circuits"

	// not served, but referred.
	Devices         = "devices"
	VirtualMachines = "virtual-machines"
)

// URL returns the path of a resource.
func URL(collection string, id int64) string {
	return fmt.Sprintf("%s/%s/%d/", APIRoot, collection, id)
}

// Brief is a nested reference to other resource.
type Brief struct {
	Id      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
}

func (b *Brief) Equal(o *Brief) bool {
	if b == nil || o == nil {
		return b == nil && o == nil
	}
	return *b == *o
}

// ComposeBrief converts a brief reference of collection.
//
// It returns nil for nil.
func ComposeBrief(collection string, b *kdb.Brief) *Brief {
	if b == nil {
		return nil
	}
	return &Brief{
		Id:      b.Id,
		URL:     URL(collection, b.Id),
		Display: b.Name,
		Name:    b.Name,
		Slug:    b.Slug,
	}
}

type Tag struct {
	Id      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Color   string `json:"color"`
}

func ComposeTag(t kdb.Tag) Tag {
	return Tag{
		Id:      t.Id,
		URL:     URL(Tags, t.Id),
		Display: t.Name,
		Name:    t.Name,
		Slug:    t.Slug,
		Color:   t.Color,
	}
}

// ComposeTags converts tags. The result is not nil, so it is encoded as "[]".
func ComposeTags(tags []kdb.Tag) []Tag {
	if len(tags) == 0 {
		return []Tag{}
	}
	return utils.Map(tags, ComposeTag)
}

// ContentType is a type of polymorphic reference, encoded as "<app_label>.<model>".
type ContentType string

// ComposeContentType converts content type. It returns nil for nil.
func ComposeContentType(ct *kdb.ContentType) *ContentType {
	if ct == nil {
		return nil
	}
	c := ContentType(ct.String())
	return &c
}
