package tables

import (
	"time"
)

// golang representation of record of PostgresSQL tables.
//
// Ids are given explicitly, so tests can refer records by id.

type Tag struct {
	Id    int64
	Name  string
	Slug  string
	Color string
}

// TaggedItem attaches a tag to a record of "<AppLabel>.<Model>".
type TaggedItem struct {
	TagId    int64
	AppLabel string
	Model    string
	ObjectId int64
}

type Region struct {
	Id       int64
	Name     string
	Slug     string
	ParentId *int64
}

type TenantGroup struct {
	Id       int64
	Name     string
	Slug     string
	ParentId *int64
}

type Tenant struct {
	Id      int64
	Name    string
	Slug    string
	GroupId *int64
}

type Site struct {
	Id       int64
	Name     string
	Slug     string
	RegionId *int64
	TenantId *int64
}

type Rack struct {
	Id         int64
	Name       string
	FacilityId *string
	SiteId     int64
	RegionId   *int64
	TenantId   *int64
}

type Device struct {
	Id   int64
	Name string
}

type VirtualMachine struct {
	Id   int64
	Name string
}

type Provider struct {
	Id      int64
	Name    string
	Slug    string
	Account *string
	Asn     *int64
}

type Circuit struct {
	Id                int64
	Cid               string
	ProviderId        int64
	Type              string
	Status            string
	TenantId          *int64
	InstallDate       *time.Time
	CommitRate        *int64
	MaintenanceWindow *string // "HH:MM:SS"
	Created           time.Time
}

type Service struct {
	Id               int64
	Name             string
	Protocol         string
	Ports            []int32
	DeviceId         *int64
	VirtualMachineId *int64
}

type VLANGroup struct {
	Id    int64
	Name  string
	Slug  string
	Scope *Scope
}

// Scope is a polymorphic reference to "<AppLabel>.<Model>" record with Id.
type Scope struct {
	AppLabel string
	Model    string
	Id       int64
}

type Number struct {
	Id          int64
	Number      string
	ProviderId  *int64
	TenantId    *int64
	RegionId    *int64
	ForwardToId *int64
}

type VoiceCircuit struct {
	Id               int64
	Name             string
	VoiceCircuitType string
	CircuitId        *int64
	ProviderId       *int64
	TenantId         *int64
	RegionId         *int64
	SipSource        *string
	SipTarget        *string
	AssignedObject   *Scope
}
