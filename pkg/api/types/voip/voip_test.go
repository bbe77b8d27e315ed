package voip_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/opst/voipinv/pkg/api/types/voip"
	"github.com/opst/voipinv/pkg/cmp"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils/pointer"
	"github.com/opst/voipinv/pkg/utils/try"
)

func TestComposeNumber(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	got := voip.ComposeNumber(kdb.Number{
		Id:        3,
		Number:    "+81300000003",
		Provider:  &kdb.Brief{Id: 1, Name: "Carrier", Slug: "carrier"},
		ForwardTo: &kdb.Brief{Id: 1, Name: "+81300000001"},
		Created:   created, LastUpdated: created,
	})

	asJSON := string(try.To(json.Marshal(got)).OrFatal(t))
	want := `{` +
		`"id":3,"url":"/api/numbers/3/","display":"+81300000003","number":"+81300000003",` +
		`"provider":{"id":1,"url":"/api/providers/1/","display":"Carrier","name":"Carrier","slug":"carrier"},` +
		`"tenant":null,"region":null,` +
		`"forward_to":{"id":1,"url":"/api/numbers/1/","display":"+81300000001","name":"+81300000001"},` +
		`"description":"",` +
		`"created":"2024-05-01T12:00:00+00:00","last_updated":"2024-05-01T12:00:00+00:00",` +
		`"tags":[]` +
		`}`
	if asJSON != want {
		t.Errorf("\n got: %s\nwant: %s", asJSON, want)
	}
}

func TestNumberPayload_Spec(t *testing.T) {
	payload := voip.NumberPayload{}
	body := `{"number": "+8130", "provider": 2, "forward_to": 5, "tags": ["core"]}`
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatal(err)
	}
	got := payload.Spec()
	if got.Number != "+8130" || *got.ProviderId != 2 || *got.ForwardToId != 5 || got.TenantId != nil {
		t.Errorf("got %+v", got)
	}
	if !cmp.SliceEq(got.Tags, []string{"core"}) {
		t.Errorf("tags: %v", got.Tags)
	}
}

func TestComposeVoiceCircuit(t *testing.T) {
	got := voip.ComposeVoiceCircuit(kdb.VoiceCircuit{
		Id: 1, Name: "trunk-1", VoiceCircuitType: kdb.SIPTrunk,
		Circuit:            &kdb.Brief{Id: 4, Name: "c-4"},
		SipSource:          pointer.Ref("192.0.2.1"),
		AssignedObjectType: &kdb.ContentType{Id: 9, AppLabel: "dcim", Model: "device"},
		AssignedObjectId:   pointer.Ref[int64](7),
		Tags:               []kdb.Tag{{Id: 1, Name: "Core", Slug: "core", Color: "ff0000"}},
	})

	if got.URL != "/api/voice-circuits/1/" || got.Display != "trunk-1" || got.VoiceCircuitType != "sip-trunk" {
		t.Errorf("got %+v", got)
	}
	if got.Circuit == nil || got.Circuit.URL != "/api/circuits/4/" || got.Circuit.Display != "c-4" {
		t.Errorf("circuit: %+v", got.Circuit)
	}
	if got.AssignedObjectType == nil || *got.AssignedObjectType != "dcim.device" {
		t.Errorf("assigned_object_type: %v", got.AssignedObjectType)
	}
	if len(got.Tags) != 1 || got.Tags[0].URL != "/api/tags/1/" || got.Tags[0].Slug != "core" {
		t.Errorf("tags: %+v", got.Tags)
	}
}

func TestVoiceCircuitPayload_Spec(t *testing.T) {
	t.Run("content type is parsed", func(t *testing.T) {
		payload := voip.VoiceCircuitPayload{
			Name: "t", VoiceCircuitType: "sip-trunk",
			AssignedObjectType: pointer.Ref("DCIM.Device"), AssignedObjectId: pointer.Ref[int64](1),
		}
		got := try.To(payload.Spec()).OrFatal(t)
		if got.AssignedObjectType == nil || *got.AssignedObjectType != (kdb.ContentTypeRef{AppLabel: "dcim", Model: "device"}) {
			t.Errorf("got %+v", got.AssignedObjectType)
		}
		if got.VoiceCircuitType != kdb.SIPTrunk {
			t.Errorf("type: %s", got.VoiceCircuitType)
		}
	})

	t.Run("malformed content type is invalid", func(t *testing.T) {
		payload := voip.VoiceCircuitPayload{Name: "t", AssignedObjectType: pointer.Ref("device")}
		_, err := payload.Spec()
		ierr := new(kdb.InvalidError)
		if !errors.As(err, &ierr) || ierr.Field != "assigned_object_type" {
			t.Errorf("got %v", err)
		}
	})
}
