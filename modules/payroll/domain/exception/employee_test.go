package exception

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestEmployeeRef_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		ref  EmployeeRef
		want string
	}{
		{"first and last", EmployeeRef{FirstName: "Aziza", LastName: "Karimova"}, "Aziza Karimova"},
		{"first only", EmployeeRef{FirstName: "Aziza"}, "Aziza"},
		{"last only", EmployeeRef{LastName: "Karimova"}, "Karimova"},
		{"name field", EmployeeRef{Name: "B. Tursunov"}, "B. Tursunov"},
		{"email local part", EmployeeRef{Email: "d.rashidov@example.com"}, "d.rashidov"},
		{"bare identifier", EmployeeRef{ID: "64f1a2b3c4d5e6f7a8b9c0d1"}, "Employee 64f1a2b3"},
		{"short identifier", EmployeeRef{ID: "e42"}, "Employee e42"},
		{"name beats email", EmployeeRef{Name: "B. Tursunov", Email: "bt@example.com"}, "B. Tursunov"},
		{"names beat everything", EmployeeRef{FirstName: "Aziza", LastName: "Karimova", Name: "x", Email: "y@z", ID: "1"}, "Aziza Karimova"},
		{"whitespace only", EmployeeRef{FirstName: "  ", Name: " "}, "Unknown"},
		{"empty", EmployeeRef{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ref.DisplayName())
			// resolution is deterministic
			require.Equal(t, tt.ref.DisplayName(), tt.ref.DisplayName())
		})
	}
}

func TestEmployeeRef_Identifier(t *testing.T) {
	require.Equal(t, "emp-1", EmployeeRef{ID: "emp-1", Email: "a@b"}.Identifier())
	require.Equal(t, "a@b", EmployeeRef{Email: "a@b", Name: "A"}.Identifier())
	require.Equal(t, "A", EmployeeRef{Name: "A"}.Identifier())
	require.Empty(t, EmployeeRef{}.Identifier())
}
