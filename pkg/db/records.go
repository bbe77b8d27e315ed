package db

import (
	"fmt"
	"time"
)

// Brief is a resolved reference to another record.
type Brief struct {
	Id   int64
	Name string

	// Slug of the record. Empty when the record does not have slug.
	Slug string
}

// ContentType is a polymorphic type reference, identified as "<app label>.<model>".
type ContentType struct {
	Id       int64
	AppLabel string
	Model    string
}

func (ct ContentType) String() string {
	return fmt.Sprintf("%s.%s", ct.AppLabel, ct.Model)
}

type Tag struct {
	Id          int64
	Name        string
	Slug        string
	Color       string
	Description string
}

// Region is a node of geographic hierarchy.
type Region struct {
	Id          int64
	Name        string
	Slug        string
	Parent      *Brief
	Description string
}

// TenantGroup is a node of organizational hierarchy of tenants.
type TenantGroup struct {
	Id          int64
	Name        string
	Slug        string
	Parent      *Brief
	Description string
}

type Tenant struct {
	Id          int64
	Name        string
	Slug        string
	Group       *Brief
	Description string
	Tags        []Tag
}

type Site struct {
	Id          int64
	Name        string
	Slug        string
	Region      *Brief
	Tenant      *Brief
	Description string
	Tags        []Tag
}

type Provider struct {
	Id       int64
	Name     string
	Slug     string
	Account  *string
	Asn      *int64
	Comments string
	Tags     []Tag
}

type Circuit struct {
	Id          int64
	Cid         string
	Provider    Brief
	Type        string
	Status      string
	Tenant      *Brief
	InstallDate *time.Time

	// committed rate in Kbps.
	CommitRate *int64

	// start of maintenance window, "HH:MM:SS".
	MaintenanceWindow *string

	Description string
	Created     time.Time
	LastUpdated time.Time
	Tags        []Tag
}

type Rack struct {
	Id         int64
	Name       string
	FacilityId *string
	Site       Brief

	// region of the site, denormalized.
	Region *Brief

	Tenant  *Brief
	UHeight int32
	Tags    []Tag
}

// ServiceParentKind is a kind of host where a service runs.
type ServiceParentKind string

const (
	ServiceOnDevice         ServiceParentKind = "device"
	ServiceOnVirtualMachine ServiceParentKind = "virtualmachine"
)

// Service is a IP service (a set of ports of a protocol) running on a device or a virtual machine.
type Service struct {
	Id             int64
	Name           string
	Protocol       string
	Ports          []int32
	Device         *Brief
	VirtualMachine *Brief
	ParentKind     ServiceParentKind
	Description    string
	Tags           []Tag
}

type VLANGroup struct {
	Id          int64
	Name        string
	Slug        string
	ScopeType   *ContentType
	ScopeId     *int64
	Description string
}

// Number is a telephone number (DID).
type Number struct {
	Id          int64
	Number      string
	Provider    *Brief
	Tenant      *Brief
	Region      *Brief
	ForwardTo   *Brief
	Description string
	Created     time.Time
	LastUpdated time.Time
	Tags        []Tag
}

type VoiceCircuitType string

const (
	SIPTrunk VoiceCircuitType = "sip-trunk"
	PRI      VoiceCircuitType = "pri"
	Analog   VoiceCircuitType = "analog"
)

// VoiceCircuitTypes returns all known VoiceCircuitType.
func VoiceCircuitTypes() []VoiceCircuitType {
	return []VoiceCircuitType{SIPTrunk, PRI, Analog}
}

// VoiceCircuit is a voice transport (SIP trunk, PRI or analog line) from a provider.
type VoiceCircuit struct {
	Id               int64
	Name             string
	VoiceCircuitType VoiceCircuitType
	Circuit          *Brief
	Provider         *Brief
	Tenant           *Brief
	Region           *Brief

	// SIP endpoints, in address or CIDR notation. Only for SIP trunks.
	SipSource *string
	SipTarget *string

	// object where this voice circuit terminates.
	AssignedObjectType *ContentType
	AssignedObjectId   *int64

	Description string
	Created     time.Time
	LastUpdated time.Time
	Tags        []Tag
}
