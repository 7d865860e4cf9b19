package exception

import (
	"strings"
)

const truncatedIDLength = 8

// EmployeeRef is the employee reference the backend attaches to an
// exception entry. The backend is inconsistent: sometimes a populated
// object with first/last name, sometimes only a name or an email, sometimes
// a bare identifier string.
type EmployeeRef struct {
	ID        string
	FirstName string
	LastName  string
	Name      string
	Email     string
}

// DisplayName resolves a human label from whatever shape the backend sent.
// Resolution order: first+last name, then name, then the local part of the
// email, then a truncated-identifier label. It is total and deterministic;
// "Unknown" only appears when the reference is entirely empty.
func (r EmployeeRef) DisplayName() string {
	first := strings.TrimSpace(r.FirstName)
	last := strings.TrimSpace(r.LastName)
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}

	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}

	if email := strings.TrimSpace(r.Email); email != "" {
		if local := strings.SplitN(email, "@", 2)[0]; local != "" {
			return local
		}
	}

	if id := strings.TrimSpace(r.ID); id != "" {
		if len(id) > truncatedIDLength {
			id = id[:truncatedIDLength]
		}
		return "Employee " + id
	}

	return "Unknown"
}

// Identifier resolves the stable key used for resolution requests and
// composite record keys: the id when present, else email, else name.
func (r EmployeeRef) Identifier() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	if email := strings.TrimSpace(r.Email); email != "" {
		return email
	}
	return strings.TrimSpace(r.Name)
}
