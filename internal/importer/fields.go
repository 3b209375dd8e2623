package importer

// FieldSpec describes one canonical target field of a record kind, in the
// order operators see them in the mapping UI.
type FieldSpec struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

var targetFieldsByKind = map[Kind][]FieldSpec{
	KindUsers: {
		{Field: "first_name", Label: "First Name", Required: true},
		{Field: "last_name", Label: "Last Name"},
		{Field: "full_name", Label: "Full Name"},
		{Field: "email", Label: "Email"},
		{Field: "phone", Label: "Phone"},
		{Field: "gender", Label: "Gender"},
		{Field: "date_of_birth", Label: "Date of Birth"},
		{Field: "emergency_name", Label: "Emergency Contact Name"},
		{Field: "emergency_phone", Label: "Emergency Contact Phone"},
		{Field: "relationship", Label: "Emergency Contact Relationship"},
		{Field: "fitness_goal", Label: "Fitness Goal"},
		{Field: "status", Label: "Status"},
		{Field: "membership_expiry", Label: "Membership Expiry"},
	},
	KindStaff: {
		{Field: "first_name", Label: "First Name", Required: true},
		{Field: "last_name", Label: "Last Name"},
		{Field: "full_name", Label: "Full Name"},
		{Field: "email", Label: "Email", Required: true},
		{Field: "phone", Label: "Phone"},
		{Field: "role", Label: "Role"},
		{Field: "status", Label: "Status"},
	},
	KindPackages: {
		{Field: "name", Label: "Package Name", Required: true},
		{Field: "description", Label: "Description"},
		{Field: "price", Label: "Price", Required: true},
		{Field: "duration_days", Label: "Duration (days)", Required: true},
		{Field: "session_count", Label: "Session Count"},
		{Field: "status", Label: "Status"},
	},
	KindCheckIns: {
		{Field: "email", Label: "Member Email", Required: true},
		{Field: "check_in_time", Label: "Check-in Time", Required: true},
		{Field: "method", Label: "Method"},
		{Field: "notes", Label: "Notes"},
	},
	KindMemberships: {
		{Field: "email", Label: "Member Email", Required: true},
		{Field: "package_name", Label: "Package Name", Required: true},
		{Field: "start_date", Label: "Start Date"},
		{Field: "expiry_date", Label: "Expiry Date"},
		{Field: "status", Label: "Status"},
	},
}

// TargetFields returns the ordered field table for a kind. The caller gets
// a copy; the tables themselves are fixed.
func TargetFields(kind Kind) []FieldSpec {
	specs := targetFieldsByKind[kind]
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// fieldAliases lists, per kind and target field, the normalized header
// synonyms seen in real gym exports. Matching is by equality or
// containment after header normalization; see AutoDetectMappings.
var fieldAliases = map[Kind]map[string][]string{
	KindUsers: {
		"first_name":        {"first_name", "firstname", "fname", "given_name"},
		"last_name":         {"last_name", "lastname", "lname", "surname", "family_name"},
		"full_name":         {"full_name", "member_name", "client_name", "customer_name", "name"},
		"email":             {"email", "e_mail", "email_address", "mail"},
		"phone":             {"phone", "mobile", "cell", "contact_number", "telephone"},
		"gender":            {"gender", "sex"},
		"date_of_birth":     {"date_of_birth", "dob", "birth_date", "birthday"},
		"emergency_name":    {"emergency_name", "emergency_contact", "ice_name"},
		"emergency_phone":   {"emergency_phone", "emergency_number", "ice_phone"},
		"relationship":      {"relationship", "relation"},
		"fitness_goal":      {"fitness_goal", "goals", "goal", "objective"},
		"status":            {"status", "active", "is_active", "member_status"},
		"membership_expiry": {"membership_expiry", "expiry", "expiration", "expires", "valid_until"},
	},
	KindStaff: {
		"first_name": {"first_name", "firstname", "fname", "given_name"},
		"last_name":  {"last_name", "lastname", "lname", "surname", "family_name"},
		"full_name":  {"full_name", "staff_name", "employee_name", "name"},
		"email":      {"email", "e_mail", "email_address", "mail"},
		"phone":      {"phone", "mobile", "cell", "contact_number"},
		"role":       {"role", "position", "job_title", "title"},
		"status":     {"status", "active", "is_active"},
	},
	KindPackages: {
		"name":          {"name", "package_name", "plan_name", "plan", "package"},
		"description":   {"description", "details", "notes"},
		"price":         {"price", "amount", "cost", "fee"},
		"duration_days": {"duration_days", "duration", "days", "length"},
		"session_count": {"session_count", "sessions", "visits", "classes"},
		"status":        {"status", "active", "is_active"},
	},
	KindCheckIns: {
		"email":         {"email", "member_email", "e_mail", "mail"},
		"check_in_time": {"check_in_time", "checkin_time", "check_in", "checkin", "visit_time", "date", "timestamp"},
		"method":        {"method", "source", "entry_method"},
		"notes":         {"notes", "comment", "remarks"},
	},
	KindMemberships: {
		"email":        {"email", "member_email", "e_mail", "mail"},
		"package_name": {"package_name", "plan_name", "package", "plan", "membership_type"},
		"start_date":   {"start_date", "start", "joined", "from"},
		"expiry_date":  {"expiry_date", "expiry", "expiration", "end_date", "valid_until", "to"},
		"status":       {"status", "active", "is_active"},
	},
}
