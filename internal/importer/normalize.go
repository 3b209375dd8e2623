package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gymops-platform/api/internal/domain"
)

// Normalized record shapes, one per kind. Pointer fields carry "present
// and valid"; nil means absent or unusable, never a zero value.

type memberRecord struct {
	FirstName        string
	LastName         string
	Email            *string
	Phone            *string
	Gender           *string
	DateOfBirth      *time.Time
	EmergencyName    *string
	EmergencyPhone   *string
	Relationship     *string
	FitnessGoal      *string
	Status           string
	MembershipExpiry *time.Time
}

type staffRecord struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Role      string
	Status    string
}

type packageRecord struct {
	Name         string
	Description  *string
	PriceCents   int64
	DurationDays int
	SessionCount *int
	Status       string
}

type checkinRecord struct {
	Email       string
	CheckedInAt time.Time
	Method      string
	Notes       *string
}

type membershipRecord struct {
	Email       string
	PackageName string
	StartDate   *time.Time
	ExpiryDate  *time.Time
	Status      string
}

// mappedValues projects a raw record through the field mappings, keyed by
// target field. Targets with no source column are simply absent.
func mappedValues(rec Record, mappings []FieldMapping) map[string]string {
	out := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.Source == "" {
			continue
		}
		if v, ok := rec[m.Source]; ok {
			out[m.Target] = strings.TrimSpace(v)
		}
	}
	return out
}

// splitName divides a combined name on whitespace runs: first token is
// the first name, the rest joined with single spaces is the last name.
// A single token becomes the first name with an empty last name.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// resolveName prefers explicit first/last columns and splits a full-name
// column only when neither was supplied.
func resolveName(vals map[string]string) (first, last string) {
	first = vals["first_name"]
	last = vals["last_name"]
	if first == "" && last == "" {
		if full := vals["full_name"]; full != "" {
			first, last = splitName(full)
		}
	}
	return first, last
}

// coerceStatus folds boolean-like spreadsheet values into the canonical
// statuses. Anything else passes through unchanged; an absent value
// defaults to active.
func coerceStatus(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.StatusActive
	}
	switch strings.ToLower(s) {
	case "1", "true":
		return domain.StatusActive
	case "0", "false":
		return domain.StatusInactive
	}
	return s
}

// joinArrayField flattens values exported as JSON arrays, e.g.
// `["weight loss","strength"]`, into a comma-separated string. Values
// that do not start with '[' or fail to parse pass through verbatim.
func joinArrayField(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "[") {
		return raw
	}
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return raw
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, ", ")
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
}

// parseDate accepts the date spellings gym systems export. The legacy
// sentinel "0000-00-00" means no date, not an error.
func parseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Timestamps in a date column keep their date part.
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

func parseTimestamp(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseMoneyCents reads a price like "49.99", "$1,200" or "1200" into
// integer cents.
func parseMoneyCents(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "$€£ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q", raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return int64(math.Round(f * 100)), nil
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizePhone strips formatting but keeps a leading plus.
func normalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Per-kind normalizers. A non-empty skip reason means the row cannot be
// imported and should be counted as skipped with that reason.

func normalizeMember(rec Record, mappings []FieldMapping) (memberRecord, string) {
	vals := mappedValues(rec, mappings)
	var m memberRecord

	m.FirstName, m.LastName = resolveName(vals)
	if m.FirstName == "" {
		return m, "missing name"
	}

	if email := normalizeEmail(vals["email"]); email != "" {
		if !strings.Contains(email, "@") {
			return m, fmt.Sprintf("invalid email %q", vals["email"])
		}
		m.Email = &email
	}
	if phone := normalizePhone(vals["phone"]); phone != "" {
		m.Phone = &phone
	}
	m.Gender = optional(vals["gender"])
	m.DateOfBirth = parseDate(vals["date_of_birth"])
	m.EmergencyName = optional(vals["emergency_name"])
	m.EmergencyPhone = optional(normalizePhone(vals["emergency_phone"]))
	m.Relationship = optional(vals["relationship"])
	m.FitnessGoal = optional(joinArrayField(vals["fitness_goal"]))
	m.Status = coerceStatus(vals["status"])
	m.MembershipExpiry = parseDate(vals["membership_expiry"])
	return m, ""
}

func normalizeStaff(rec Record, mappings []FieldMapping) (staffRecord, string) {
	vals := mappedValues(rec, mappings)
	var s staffRecord

	s.FirstName, s.LastName = resolveName(vals)
	if s.FirstName == "" {
		return s, "missing name"
	}
	s.Email = normalizeEmail(vals["email"])
	if s.Email == "" {
		return s, "missing email"
	}
	if !strings.Contains(s.Email, "@") {
		return s, fmt.Sprintf("invalid email %q", vals["email"])
	}
	if phone := normalizePhone(vals["phone"]); phone != "" {
		s.Phone = &phone
	}
	s.Role = strings.ToLower(strings.TrimSpace(vals["role"]))
	if s.Role == "" {
		s.Role = "staff"
	}
	s.Status = coerceStatus(vals["status"])
	return s, ""
}

func normalizePackage(rec Record, mappings []FieldMapping) (packageRecord, string) {
	vals := mappedValues(rec, mappings)
	var p packageRecord

	p.Name = strings.TrimSpace(vals["name"])
	if p.Name == "" {
		return p, "missing package name"
	}
	price, err := parseMoneyCents(vals["price"])
	if err != nil {
		return p, err.Error()
	}
	p.PriceCents = price

	days, err := strconv.Atoi(strings.TrimSpace(vals["duration_days"]))
	if err != nil || days <= 0 {
		return p, fmt.Sprintf("invalid duration %q", vals["duration_days"])
	}
	p.DurationDays = days

	if raw := strings.TrimSpace(vals["session_count"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, fmt.Sprintf("invalid session count %q", raw)
		}
		p.SessionCount = &n
	}
	p.Description = optional(vals["description"])
	p.Status = coerceStatus(vals["status"])
	return p, ""
}

func normalizeCheckIn(rec Record, mappings []FieldMapping) (checkinRecord, string) {
	vals := mappedValues(rec, mappings)
	var c checkinRecord

	c.Email = normalizeEmail(vals["email"])
	if c.Email == "" {
		return c, "missing member email"
	}
	ts := parseTimestamp(vals["check_in_time"])
	if ts == nil {
		return c, fmt.Sprintf("invalid check-in time %q", vals["check_in_time"])
	}
	c.CheckedInAt = *ts
	c.Method = strings.ToLower(strings.TrimSpace(vals["method"]))
	if c.Method == "" {
		c.Method = "import"
	}
	c.Notes = optional(vals["notes"])
	return c, ""
}

func normalizeMembership(rec Record, mappings []FieldMapping) (membershipRecord, string) {
	vals := mappedValues(rec, mappings)
	var m membershipRecord

	m.Email = normalizeEmail(vals["email"])
	if m.Email == "" {
		return m, "missing member email"
	}
	m.PackageName = strings.TrimSpace(vals["package_name"])
	if m.PackageName == "" {
		return m, "missing package name"
	}
	m.StartDate = parseDate(vals["start_date"])
	m.ExpiryDate = parseDate(vals["expiry_date"])
	if m.StartDate != nil && m.ExpiryDate != nil && m.ExpiryDate.Before(*m.StartDate) {
		return m, "expiry date before start date"
	}
	m.Status = coerceStatus(vals["status"])
	return m, ""
}
