// Package importer implements the bulk data import pipeline: mapping
// spreadsheet headers onto canonical fields, normalizing raw rows,
// resolving duplicates against existing records, provisioning sign-in
// identities, and writing the result. Rows are processed one at a time
// with a per-row outcome and cooperative cancellation.
package importer

import "github.com/google/uuid"

// Kind is a category of importable data.
type Kind string

const (
	KindUsers       Kind = "users"
	KindStaff       Kind = "staff"
	KindPackages    Kind = "packages"
	KindCheckIns    Kind = "check_ins"
	KindMemberships Kind = "memberships"
)

func (k Kind) Valid() bool {
	switch k {
	case KindUsers, KindStaff, KindPackages, KindCheckIns, KindMemberships:
		return true
	}
	return false
}

// DuplicateHandling decides what happens when a row matches an existing
// record by natural key.
type DuplicateHandling string

const (
	// DuplicateSkip leaves the existing record untouched.
	DuplicateSkip DuplicateHandling = "skip"
	// DuplicateUpdate overwrites the existing record's mutable fields.
	DuplicateUpdate DuplicateHandling = "update"
	// DuplicateCreateNew ignores the match and creates another record.
	DuplicateCreateNew DuplicateHandling = "create_new"
)

func (d DuplicateHandling) Valid() bool {
	switch d {
	case DuplicateSkip, DuplicateUpdate, DuplicateCreateNew:
		return true
	}
	return false
}

// Record is one parsed input row: source column name to raw cell value.
// A missing key means the cell was absent from the upload.
type Record map[string]string

// FieldMapping ties a source column to a canonical target field. An empty
// Source means the target is unmapped.
type FieldMapping struct {
	Source string `json:"sourceField"`
	Target string `json:"targetField"`
}

// Config is the immutable configuration of one import run.
type Config struct {
	TenantID    uuid.UUID
	DataType    Kind
	OnDuplicate DuplicateHandling
	Mappings    []FieldMapping
}

// Result is the run-level aggregate returned to the caller. The counters
// satisfy Imported+Updated+Skipped+Failed == TotalRecords unless the run
// was cancelled mid-way.
type Result struct {
	Success      bool     `json:"success"`
	TotalRecords int      `json:"totalRecords"`
	Imported     int      `json:"imported"`
	Skipped      int      `json:"skipped"`
	Updated      int      `json:"updated"`
	Failed       int      `json:"failed"`
	Errors       []string `json:"errors"`
	Cancelled    bool     `json:"cancelled,omitempty"`
}

// RowStatus is the terminal state of one row. Rows never transition twice.
type RowStatus int

const (
	RowImported RowStatus = iota
	RowUpdated
	RowSkipped
	RowFailed
)

// RowOutcome is the value every row-level failure path collapses into;
// nothing escapes a row importer as an error.
type RowOutcome struct {
	Status RowStatus
	Reason string
}

func importedRow() RowOutcome { return RowOutcome{Status: RowImported} }

func updatedRow() RowOutcome { return RowOutcome{Status: RowUpdated} }

func skippedRow(reason string) RowOutcome { return RowOutcome{Status: RowSkipped, Reason: reason} }

func failedRow(reason string) RowOutcome { return RowOutcome{Status: RowFailed, Reason: reason} }
