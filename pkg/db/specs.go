package db

import (
	"fmt"
	"net/netip"
	"regexp"
	"slices"
	"strings"

	"github.com/opst/voipinv/pkg/filters"
)

var (
	numberPattern = regexp.MustCompile(`^\+?[0-9]+$`)
	slugPattern   = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ContentTypeRef refers a ContentType as "<app label>.<model>".
type ContentTypeRef struct {
	AppLabel string
	Model    string
}

// ParseContentTypeRef parses "<app label>.<model>", as content type filters do.
func ParseContentTypeRef(s string) (ContentTypeRef, error) {
	app, model, ok := filters.ParseContentType(s)
	if !ok {
		return ContentTypeRef{}, fmt.Errorf(`%q is not in form of "<app_label>.<model>"`, s)
	}
	return ContentTypeRef{AppLabel: app, Model: model}, nil
}

func (r ContentTypeRef) String() string {
	return r.AppLabel + "." + r.Model
}

// NumberSpec is a content of Number to be written.
type NumberSpec struct {
	Number      string
	ProviderId  *int64
	TenantId    *int64
	RegionId    *int64
	ForwardToId *int64
	Description string

	// slugs of tags
	Tags []string
}

// Validate checks invariants of NumberSpec.
//
// # Args
//
// - self: id of the number to be updated. nil on creation.
func (s NumberSpec) Validate(self *int64) error {
	if !numberPattern.MatchString(s.Number) {
		return NewErrInvalid("number", "should be digits with optional leading '+'")
	}
	if self != nil && s.ForwardToId != nil && *self == *s.ForwardToId {
		return NewErrInvalid("forward_to", "number cannot forward to itself")
	}
	return validateTags(s.Tags)
}

// VoiceCircuitSpec is a content of VoiceCircuit to be written.
type VoiceCircuitSpec struct {
	Name               string
	VoiceCircuitType   VoiceCircuitType
	CircuitId          *int64
	ProviderId         *int64
	TenantId           *int64
	RegionId           *int64
	SipSource          *string
	SipTarget          *string
	AssignedObjectType *ContentTypeRef
	AssignedObjectId   *int64
	Description        string

	// slugs of tags
	Tags []string
}

func (s VoiceCircuitSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewErrInvalid("name", "should not be blank")
	}
	if !slices.Contains(VoiceCircuitTypes(), s.VoiceCircuitType) {
		return NewErrInvalid(
			"voice_circuit_type",
			fmt.Sprintf("unknown type %q; should be one of %v", s.VoiceCircuitType, VoiceCircuitTypes()),
		)
	}
	for _, sip := range []struct {
		field string
		value *string
	}{
		{field: "sip_source", value: s.SipSource},
		{field: "sip_target", value: s.SipTarget},
	} {
		if sip.value == nil {
			continue
		}
		if s.VoiceCircuitType != SIPTrunk {
			return NewErrInvalid(sip.field, fmt.Sprintf("only for %s", SIPTrunk))
		}
		if !isAddress(*sip.value) {
			return NewErrInvalid(sip.field, "should be an IP address or prefix")
		}
	}
	if (s.AssignedObjectType == nil) != (s.AssignedObjectId == nil) {
		return NewErrInvalid("assigned_object", "type and id should be set together")
	}
	return validateTags(s.Tags)
}

// ServiceSpec is a content of Service to be written.
type ServiceSpec struct {
	Name             string
	Protocol         string
	Ports            []int32
	DeviceId         *int64
	VirtualMachineId *int64
	Description      string

	// slugs of tags
	Tags []string
}

// ServiceProtocols are protocols which Service accepts.
func ServiceProtocols() []string {
	return []string{"tcp", "udp", "sctp"}
}

func (s ServiceSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewErrInvalid("name", "should not be blank")
	}
	if !slices.Contains(ServiceProtocols(), s.Protocol) {
		return NewErrInvalid(
			"protocol",
			fmt.Sprintf("unknown protocol %q; should be one of %v", s.Protocol, ServiceProtocols()),
		)
	}
	if len(s.Ports) == 0 {
		return NewErrInvalid("ports", "at least one port is required")
	}
	for _, p := range s.Ports {
		if p < 1 || 65535 < p {
			return NewErrInvalid("ports", fmt.Sprintf("%d is out of range [1, 65535]", p))
		}
	}
	if (s.DeviceId == nil) == (s.VirtualMachineId == nil) {
		return NewErrInvalid("parent", "exactly one of device or virtual_machine should be set")
	}
	return validateTags(s.Tags)
}

// ParentKind tells where the service runs.
func (s ServiceSpec) ParentKind() ServiceParentKind {
	if s.DeviceId != nil {
		return ServiceOnDevice
	}
	return ServiceOnVirtualMachine
}

func validateTags(tags []string) error {
	for _, t := range tags {
		if !slugPattern.MatchString(t) {
			return NewErrInvalid("tags", fmt.Sprintf("%q is not a slug", t))
		}
	}
	return nil
}

func isAddress(s string) bool {
	if _, err := netip.ParseAddr(s); err == nil {
		return true
	}
	_, err := netip.ParsePrefix(s)
	return err == nil
}
