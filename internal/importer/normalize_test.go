package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitName(t *testing.T) {
	first, last := splitName("Alice Jones")
	assert.Equal(t, "Alice", first)
	assert.Equal(t, "Jones", last)

	first, last = splitName("Madonna")
	assert.Equal(t, "Madonna", first)
	assert.Empty(t, last)

	first, last = splitName("  Ana  Maria   da Silva ")
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Maria da Silva", last)
}

func TestResolveName(t *testing.T) {
	first, last := resolveName(map[string]string{"full_name": "Alice Smith"})
	assert.Equal(t, "Alice", first)
	assert.Equal(t, "Smith", last)

	// Explicit columns win over the combined one, even when only one
	// of them is present.
	first, last = resolveName(map[string]string{"full_name": "Alice Smith", "last_name": "Jones"})
	assert.Empty(t, first)
	assert.Equal(t, "Jones", last)

	first, last = resolveName(map[string]string{"full_name": "Alice Smith", "first_name": "Ann"})
	assert.Equal(t, "Ann", first)
	assert.Empty(t, last)
}

func TestCoerceStatus(t *testing.T) {
	for _, raw := range []string{"1", "true", "TRUE", ""} {
		assert.Equal(t, "active", coerceStatus(raw), "raw %q", raw)
	}
	for _, raw := range []string{"0", "false", "False"} {
		assert.Equal(t, "inactive", coerceStatus(raw), "raw %q", raw)
	}

	// Non-boolean values pass through untouched.
	assert.Equal(t, "pending", coerceStatus("pending"))
	assert.Equal(t, "frozen", coerceStatus(" frozen "))
}

func TestJoinArrayField(t *testing.T) {
	assert.Equal(t, "weight loss, strength", joinArrayField(`["weight loss","strength"]`))
	assert.Equal(t, "just text", joinArrayField("just text"))
	assert.Equal(t, "", joinArrayField("[]"))

	// Malformed JSON stays verbatim rather than erroring the row.
	assert.Equal(t, `['cardio']`, joinArrayField(`['cardio']`))
}

func TestParseDate(t *testing.T) {
	d := parseDate("2024-03-15")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)

	// Slash and US formats.
	require.NotNil(t, parseDate("2024/03/15"))
	require.NotNil(t, parseDate("03/15/2024"))

	// The legacy zero date is absence, not garbage.
	assert.Nil(t, parseDate("0000-00-00"))
	assert.Nil(t, parseDate("0000-00-00 00:00:00"))
	assert.Nil(t, parseDate(""))
	assert.Nil(t, parseDate("not a date"))

	// A timestamp in a date column keeps the date part.
	d = parseDate("2024-03-15 18:30:00")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *d)
}

func TestParseMoneyCents(t *testing.T) {
	for raw, want := range map[string]int64{
		"49.99":  4999,
		"$1,200": 120000,
		"1200":   120000,
		"0":      0,
		"€30":    3000,
	} {
		got, err := parseMoneyCents(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, got, "raw %q", raw)
	}

	_, err := parseMoneyCents("free")
	assert.Error(t, err)
	_, err = parseMoneyCents("-5")
	assert.Error(t, err)
	_, err = parseMoneyCents("")
	assert.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+15551234567", normalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "5551234567", normalizePhone("555.123.4567"))
	assert.Equal(t, "", normalizePhone("n/a"))
}

var userMappings = []FieldMapping{
	{Source: "Name", Target: "full_name"},
	{Source: "Email", Target: "email"},
	{Source: "Phone", Target: "phone"},
	{Source: "Goals", Target: "fitness_goal"},
	{Source: "Active", Target: "status"},
	{Source: "Expiry", Target: "membership_expiry"},
}

func TestNormalizeMember(t *testing.T) {
	rec := Record{
		"Name":   "Alice Jones",
		"Email":  " ALICE@Example.COM ",
		"Phone":  "(555) 111-2222",
		"Goals":  `["weight loss","strength"]`,
		"Active": "1",
		"Expiry": "0000-00-00",
	}

	m, skip := normalizeMember(rec, userMappings)
	require.Empty(t, skip)
	assert.Equal(t, "Alice", m.FirstName)
	assert.Equal(t, "Jones", m.LastName)
	require.NotNil(t, m.Email)
	assert.Equal(t, "alice@example.com", *m.Email)
	require.NotNil(t, m.Phone)
	assert.Equal(t, "5551112222", *m.Phone)
	require.NotNil(t, m.FitnessGoal)
	assert.Equal(t, "weight loss, strength", *m.FitnessGoal)
	assert.Equal(t, "active", m.Status)
	assert.Nil(t, m.MembershipExpiry)
}

func TestNormalizeMemberMissingName(t *testing.T) {
	_, skip := normalizeMember(Record{"Email": "x@y.com"}, userMappings)
	assert.Equal(t, "missing name", skip)
}

func TestNormalizeMemberBadEmail(t *testing.T) {
	_, skip := normalizeMember(Record{"Name": "Bob", "Email": "not-an-email"}, userMappings)
	assert.Contains(t, skip, "invalid email")
}

func TestNormalizeStaffRequiresEmail(t *testing.T) {
	mappings := []FieldMapping{
		{Source: "Name", Target: "full_name"},
		{Source: "Email", Target: "email"},
		{Source: "Role", Target: "role"},
	}

	_, skip := normalizeStaff(Record{"Name": "Carol Smith"}, mappings)
	assert.Equal(t, "missing email", skip)

	s, skip := normalizeStaff(Record{"Name": "Carol Smith", "Email": "carol@gym.io"}, mappings)
	require.Empty(t, skip)
	assert.Equal(t, "staff", s.Role, "role defaults when the column is unmapped")
}

func TestNormalizePackage(t *testing.T) {
	mappings := []FieldMapping{
		{Source: "Plan", Target: "name"},
		{Source: "Price", Target: "price"},
		{Source: "Days", Target: "duration_days"},
		{Source: "Sessions", Target: "session_count"},
	}

	p, skip := normalizePackage(Record{"Plan": "3 Month Unlimited", "Price": "$299.00", "Days": "90"}, mappings)
	require.Empty(t, skip)
	assert.Equal(t, int64(29900), p.PriceCents)
	assert.Equal(t, 90, p.DurationDays)
	assert.Nil(t, p.SessionCount)

	_, skip = normalizePackage(Record{"Plan": "Bad", "Price": "299", "Days": "0"}, mappings)
	assert.Contains(t, skip, "invalid duration")
}

func TestNormalizeMembershipDates(t *testing.T) {
	mappings := []FieldMapping{
		{Source: "Email", Target: "email"},
		{Source: "Plan", Target: "package_name"},
		{Source: "From", Target: "start_date"},
		{Source: "To", Target: "expiry_date"},
	}

	_, skip := normalizeMembership(Record{
		"Email": "a@b.c", "Plan": "Monthly", "From": "2024-05-01", "To": "2024-04-01",
	}, mappings)
	assert.Equal(t, "expiry date before start date", skip)
}
