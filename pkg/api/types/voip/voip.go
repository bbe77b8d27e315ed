// Package voip is JSON representations of numbers and voice circuits.
package voip

import (
	"github.com/opst/voipinv/pkg/api/types/refs"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils/rfctime"
)

type Number struct {
	Id          int64           `json:"id"`
	URL         string          `json:"url"`
	Display     string          `json:"display"`
	Number      string          `json:"number"`
	Provider    *refs.Brief     `json:"provider"`
	Tenant      *refs.Brief     `json:"tenant"`
	Region      *refs.Brief     `json:"region"`
	ForwardTo   *refs.Brief     `json:"forward_to"`
	Description string          `json:"description"`
	Created     rfctime.RFC3339 `json:"created"`
	LastUpdated rfctime.RFC3339 `json:"last_updated"`
	Tags        []refs.Tag      `json:"tags"`
}

func ComposeNumber(n kdb.Number) Number {
	return Number{
		Id:          n.Id,
		URL:         refs.URL(refs.Numbers, n.Id),
		Display:     n.Number,
		Number:      n.Number,
		Provider:    refs.ComposeBrief(refs.Providers, n.Provider),
		Tenant:      refs.ComposeBrief(refs.Tenants, n.Tenant),
		Region:      refs.ComposeBrief(refs.Regions, n.Region),
		ForwardTo:   refs.ComposeBrief(refs.Numbers, n.ForwardTo),
		Description: n.Description,
		Created:     rfctime.RFC3339(n.Created),
		LastUpdated: rfctime.RFC3339(n.LastUpdated),
		Tags:        refs.ComposeTags(n.Tags),
	}
}

// NumberPayload is a request body to create or update a number.
//
// Related records are given by id, and tags are given by slug.
type NumberPayload struct {
	Number      string   `json:"number"`
	Provider    *int64   `json:"provider"`
	Tenant      *int64   `json:"tenant"`
	Region      *int64   `json:"region"`
	ForwardTo   *int64   `json:"forward_to"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (p NumberPayload) Spec() kdb.NumberSpec {
	return kdb.NumberSpec{
		Number:      p.Number,
		ProviderId:  p.Provider,
		TenantId:    p.Tenant,
		RegionId:    p.Region,
		ForwardToId: p.ForwardTo,
		Description: p.Description,
		Tags:        p.Tags,
	}
}

type VoiceCircuit struct {
	Id                 int64             `json:"id"`
	URL                string            `json:"url"`
	Display            string            `json:"display"`
	Name               string            `json:"name"`
	VoiceCircuitType   string            `json:"voice_circuit_type"`
	Circuit            *refs.Brief       `json:"circuit"`
	Provider           *refs.Brief       `json:"provider"`
	Tenant             *refs.Brief       `json:"tenant"`
	Region             *refs.Brief       `json:"region"`
	SipSource          *string           `json:"sip_source"`
	SipTarget          *string           `json:"sip_target"`
	AssignedObjectType *refs.ContentType `json:"assigned_object_type"`
	AssignedObjectId   *int64            `json:"assigned_object_id"`
	Description        string            `json:"description"`
	Created            rfctime.RFC3339   `json:"created"`
	LastUpdated        rfctime.RFC3339   `json:"last_updated"`
	Tags               []refs.Tag        `json:"tags"`
}

func ComposeVoiceCircuit(vc kdb.VoiceCircuit) VoiceCircuit {
	return VoiceCircuit{
		Id:                 vc.Id,
		URL:                refs.URL(refs.VoiceCircuits, vc.Id),
		Display:            vc.Name,
		Name:               vc.Name,
		VoiceCircuitType:   string(vc.VoiceCircuitType),
		Circuit:            refs.ComposeBrief(refs.Circuits, vc.Circuit),
		Provider:           refs.ComposeBrief(refs.Providers, vc.Provider),
		Tenant:             refs.ComposeBrief(refs.Tenants, vc.Tenant),
		Region:             refs.ComposeBrief(refs.Regions, vc.Region),
		SipSource:          vc.SipSource,
		SipTarget:          vc.SipTarget,
		AssignedObjectType: refs.ComposeContentType(vc.AssignedObjectType),
		AssignedObjectId:   vc.AssignedObjectId,
		Description:        vc.Description,
		Created:            rfctime.RFC3339(vc.Created),
		LastUpdated:        rfctime.RFC3339(vc.LastUpdated),
		Tags:               refs.ComposeTags(vc.Tags),
	}
}

// VoiceCircuitPayload is a request body to create or update a voice circuit.
type VoiceCircuitPayload struct {
	Name               string   `json:"name"`
	VoiceCircuitType   string   `json:"voice_circuit_type"`
	Circuit            *int64   `json:"circuit"`
	Provider           *int64   `json:"provider"`
	Tenant             *int64   `json:"tenant"`
	Region             *int64   `json:"region"`
	SipSource          *string  `json:"sip_source"`
	SipTarget          *string  `json:"sip_target"`
	AssignedObjectType *string  `json:"assigned_object_type"`
	AssignedObjectId   *int64   `json:"assigned_object_id"`
	Description        string   `json:"description"`
	Tags               []string `json:"tags"`
}

// Spec converts the payload.
//
// It returns kdb.ErrInvalid when assigned_object_type is not "<app_label>.<model>".
func (p VoiceCircuitPayload) Spec() (kdb.VoiceCircuitSpec, error) {
	spec := kdb.VoiceCircuitSpec{
		Name:             p.Name,
		VoiceCircuitType: kdb.VoiceCircuitType(p.VoiceCircuitType),
		CircuitId:        p.Circuit,
		ProviderId:       p.Provider,
		TenantId:         p.Tenant,
		RegionId:         p.Region,
		SipSource:        p.SipSource,
		SipTarget:        p.SipTarget,
		AssignedObjectId: p.AssignedObjectId,
		Description:      p.Description,
		Tags:             p.Tags,
	}
	if p.AssignedObjectType != nil {
		ct, err := kdb.ParseContentTypeRef(*p.AssignedObjectType)
		if err != nil {
			return kdb.VoiceCircuitSpec{}, kdb.NewErrInvalid("assigned_object_type", err.Error())
		}
		spec.AssignedObjectType = &ct
	}
	return spec, nil
}
