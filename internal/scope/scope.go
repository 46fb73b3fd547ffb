// Package scope is the role-scoped query engine: a declarative policy
// table mapping (resource, role) to the SQL visibility predicate for that
// caller. Repositories compose the returned clause into their selections
// so filtering happens inside the query, never after the fetch. A role
// with no entry for a resource is denied outright, which keeps "forbidden"
// distinguishable from "empty result".
package scope

import (
	"fmt"

	"github.com/luct-reporting/reporting-api/internal/models"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

// Identity is the resolved caller threaded explicitly into every query
// and mutation. It is never read from ambient request state.
type Identity struct {
	ID      string
	Name    string
	Role    models.UserRole
	Faculty string
}

// Resource names a scoped resource family.
type Resource string

const (
	Courses     Resource = "courses"
	Assignments Resource = "assignments"
	Reports     Resource = "reports"
	Ratings     Resource = "ratings"
)

// Clause is a visibility predicate expressed as SQL fragments. Join is
// appended after the base FROM, Where is ANDed into the selection. Args
// line up with the numbered placeholders starting at the offset passed
// to For.
type Clause struct {
	Join  string
	Where string
	Args  []interface{}
}

// Empty reports whether the clause imposes no restriction.
func (c Clause) Empty() bool {
	return c.Join == "" && c.Where == "" && len(c.Args) == 0
}

type builder func(id Identity, firstArg int) Clause

// The table alias contract: courses are selected as "c", reports as "r",
// ratings as "rt", assignments as "a". Builders rely on those aliases.
var policies = map[Resource]map[models.UserRole]builder{
	Courses: {
		models.RoleStudent: func(id Identity, n int) Clause {
			return Clause{
				Join:  "JOIN enrollments e ON e.course_id = c.id",
				Where: fmt.Sprintf("e.student_id = $%d", n),
				Args:  []interface{}{id.ID},
			}
		},
		models.RoleLecturer: func(id Identity, n int) Clause {
			return Clause{
				Join:  "JOIN lecture_assignments la ON la.course_id = c.id",
				Where: fmt.Sprintf("la.lecturer_id = $%d", n),
				Args:  []interface{}{id.ID},
			}
		},
		models.RolePRL: facultyClause,
		models.RolePL:  unrestricted,
	},
	Assignments: {
		models.RolePL: unrestricted,
	},
	Reports: {
		models.RoleStudent: func(id Identity, n int) Clause {
			return Clause{
				Join:  "JOIN enrollments e ON e.course_id = c.id",
				Where: fmt.Sprintf("e.student_id = $%d", n),
				Args:  []interface{}{id.ID},
			}
		},
		models.RoleLecturer: func(id Identity, n int) Clause {
			return Clause{
				Where: fmt.Sprintf("r.lecturer_id = $%d", n),
				Args:  []interface{}{id.ID},
			}
		},
		models.RolePRL: facultyClause,
		models.RolePL:  unrestricted,
	},
	Ratings: {
		models.RoleStudent: func(id Identity, n int) Clause {
			return Clause{
				Where: fmt.Sprintf("rt.student_id = $%d", n),
				Args:  []interface{}{id.ID},
			}
		},
		models.RoleLecturer: func(id Identity, n int) Clause {
			return Clause{
				Join:  "JOIN lecture_assignments la ON la.course_id = c.id",
				Where: fmt.Sprintf("la.lecturer_id = $%d", n),
				Args:  []interface{}{id.ID},
			}
		},
		models.RolePRL: facultyClause,
		models.RolePL:  unrestricted,
	},
}

func unrestricted(Identity, int) Clause {
	return Clause{}
}

// PRL visibility is always course-faculty scoped, regardless of resource.
func facultyClause(id Identity, n int) Clause {
	return Clause{
		Where: fmt.Sprintf("c.faculty_name = $%d", n),
		Args:  []interface{}{id.Faculty},
	}
}

// For returns the visibility clause for the resource as seen by the
// caller. firstArg is the placeholder number the clause may start using.
// Roles outside the policy table receive a forbidden error, not an empty
// predicate.
func For(resource Resource, id Identity, firstArg int) (Clause, error) {
	byRole, ok := policies[resource]
	if !ok {
		return Clause{}, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("unknown resource %q", resource))
	}
	build, ok := byRole[id.Role]
	if !ok {
		return Clause{}, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %q may not access %s", id.Role, resource))
	}
	if id.Role == models.RolePRL && id.Faculty == "" {
		return Clause{}, appErrors.Clone(appErrors.ErrForbidden, "prl account has no faculty")
	}
	return build(id, firstArg), nil
}

// OrderBy returns the deterministic ordering contract for a resource:
// courses by name ascending, reports and ratings most recent first, ids
// breaking ties.
func OrderBy(resource Resource) string {
	switch resource {
	case Courses:
		return "ORDER BY c.course_name ASC, c.id ASC"
	case Assignments:
		return "ORDER BY c.course_name ASC, a.id ASC"
	case Reports:
		return "ORDER BY r.date_of_lecture DESC, r.id ASC"
	case Ratings:
		return "ORDER BY rt.created_at DESC, rt.id ASC"
	}
	return ""
}
