package constants

import "fmt"

// Template pesan error role
const (
	ErrOnlyAssistantsCanProctor = "only users with role %q can proctor an exam, got %q"
)

// Role yang dikenal oleh platform ujian
const (
	RoleStudent            = "Student"
	RoleAssistant          = "Assistant"
	RoleSubjectDevelopment = "Subject Development"
	RoleExamCoordinator    = "Exam Coordinator"
)

func RoleErrorAssistant(role string) string {
	return fmt.Sprintf(ErrOnlyAssistantsCanProctor, RoleAssistant, role)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleAssistant,
		RoleSubjectDevelopment,
		RoleExamCoordinator,
	}

	ProctorRoles = []string{
		RoleAssistant,
	}
)

// IsRole reports whether role is one of the known platform roles.
func IsRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
