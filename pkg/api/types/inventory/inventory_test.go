package inventory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/opst/voipinv/pkg/api/types/inventory"
	"github.com/opst/voipinv/pkg/api/types/refs"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils/pointer"
	"github.com/opst/voipinv/pkg/utils/try"
)

func TestComposeCircuit(t *testing.T) {
	got := inventory.ComposeCircuit(kdb.Circuit{
		Id: 1, Cid: "c-1",
		Provider:          kdb.Brief{Id: 2, Name: "Carrier", Slug: "carrier"},
		InstallDate:       pointer.Ref(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		MaintenanceWindow: pointer.Ref("02:00:00"),
	})
	if got.Display != "c-1" || got.URL != "/api/circuits/1/" {
		t.Errorf("got %+v", got)
	}
	want := refs.Brief{Id: 2, URL: "/api/providers/2/", Display: "Carrier", Name: "Carrier", Slug: "carrier"}
	if !got.Provider.Equal(&want) {
		t.Errorf("provider: %+v", got.Provider)
	}
	if got.InstallDate == nil || *got.InstallDate != "2024-04-01" {
		t.Errorf("install_date: %v", got.InstallDate)
	}
	if got.Tenant != nil {
		t.Errorf("tenant: %+v", got.Tenant)
	}
}

func TestComposeService(t *testing.T) {
	got := inventory.ComposeService(kdb.Service{
		Id: 5, Name: "sip", Protocol: "udp",
		VirtualMachine: &kdb.Brief{Id: 3, Name: "vm-3"},
		ParentKind:     kdb.ServiceOnVirtualMachine,
	})
	asJSON := string(try.To(json.Marshal(got)).OrFatal(t))
	want := `{"id":5,"url":"/api/services/5/","display":"sip","name":"sip","protocol":"udp","ports":[],` +
		`"device":null,` +
		`"virtual_machine":{"id":3,"url":"/api/virtual-machines/3/","display":"vm-3","name":"vm-3"},` +
		`"parent_kind":"virtualmachine","description":"","tags":[]}`
	if asJSON != want {
		t.Errorf("\n got: %s\nwant: %s", asJSON, want)
	}
}

func TestServicePayload_Spec(t *testing.T) {
	payload := inventory.ServicePayload{}
	body := `{"name": "sip", "protocol": "udp", "ports": [5060], "device": 1, "tags": ["core"]}`
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatal(err)
	}
	got := payload.Spec()
	if err := got.Validate(); err != nil {
		t.Errorf("valid payload is rejected: %v", err)
	}
	if got.ParentKind() != kdb.ServiceOnDevice {
		t.Errorf("parent kind: %s", got.ParentKind())
	}
}

func TestComposeVLANGroup(t *testing.T) {
	got := inventory.ComposeVLANGroup(kdb.VLANGroup{
		Id: 1, Name: "g", Slug: "g",
		ScopeType: &kdb.ContentType{Id: 3, AppLabel: "dcim", Model: "site"},
		ScopeId:   pointer.Ref[int64](2),
	})
	if got.ScopeType == nil || *got.ScopeType != "dcim.site" {
		t.Errorf("scope_type: %v", got.ScopeType)
	}

	unscoped := inventory.ComposeVLANGroup(kdb.VLANGroup{Id: 2, Name: "global", Slug: "global"})
	asJSON := string(try.To(json.Marshal(unscoped)).OrFatal(t))
	want := `{"id":2,"url":"/api/vlan-groups/2/","display":"global","name":"global","slug":"global",` +
		`"scope_type":null,"scope_id":null,"description":""}`
	if asJSON != want {
		t.Errorf("\n got: %s\nwant: %s", asJSON, want)
	}
}

func TestComposeRegion(t *testing.T) {
	got := inventory.ComposeRegion(kdb.Region{
		Id: 2, Name: "Japan", Slug: "japan", Parent: &kdb.Brief{Id: 1, Name: "Asia", Slug: "asia"},
	})
	if got.Parent == nil || got.Parent.URL != "/api/regions/1/" {
		t.Errorf("parent: %+v", got.Parent)
	}
}
