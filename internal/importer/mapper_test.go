package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"First Name":     "first_name",
		"  E-Mail  ":     "e_mail",
		"\uFEFFemail":    "email",
		"PHONE NUMBER":   "phone_number",
		"date/of/birth":  "date_of_birth",
		"Price ($)":      "price",
		"member__status": "member_status",
		"Check-In Time":  "check_in_time",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeHeader(in), "header %q", in)
	}
}

func TestAutoDetectMappingsUsers(t *testing.T) {
	headers := []string{"Member Name", "E-Mail", "Mobile", "DOB", "Active?", "Favorite Color"}
	mappings := AutoDetectMappings(KindUsers, headers)

	byTarget := make(map[string]string, len(mappings))
	for _, m := range mappings {
		byTarget[m.Target] = m.Source
	}

	assert.Equal(t, "Member Name", byTarget["full_name"])
	assert.Equal(t, "E-Mail", byTarget["email"])
	assert.Equal(t, "Mobile", byTarget["phone"])
	assert.Equal(t, "DOB", byTarget["date_of_birth"])
	assert.Equal(t, "Active?", byTarget["status"])

	// Every target field is present, unmatched ones with an empty source.
	require.Len(t, mappings, len(TargetFields(KindUsers)))
	assert.Empty(t, byTarget["fitness_goal"])
}

func TestAutoDetectMappingsExactBeatsContainment(t *testing.T) {
	// "email_address" contains "email" but the exact header should win the
	// email slot, leaving the longer one unclaimed.
	headers := []string{"backup_email_address", "email"}
	mappings := AutoDetectMappings(KindCheckIns, headers)

	for _, m := range mappings {
		if m.Target == "email" {
			assert.Equal(t, "email", m.Source)
		}
	}
}

func TestAutoDetectMappingsClaimsEachHeaderOnce(t *testing.T) {
	headers := []string{"name"}
	mappings := AutoDetectMappings(KindPackages, headers)

	claimed := 0
	for _, m := range mappings {
		if m.Source == "name" {
			claimed++
		}
	}
	assert.Equal(t, 1, claimed)
}
