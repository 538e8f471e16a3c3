package models

import (
	"fmt"
	"strings"
)

// DepartmentCode is the closed set of organizational units. Every
// authorization allowlist is expressed in these codes; free-form department
// strings never enter the system.
type DepartmentCode string

const (
	DeptSales      DepartmentCode = "sales"
	DeptSupport    DepartmentCode = "support"
	DeptManagement DepartmentCode = "management"
)

var departmentLabels = map[DepartmentCode]string{
	DeptSales:      "Sales",
	DeptSupport:    "Support",
	DeptManagement: "Management",
}

// departmentAliases maps legacy spellings seen in older data sets onto the
// canonical codes.
var departmentAliases = map[string]DepartmentCode{
	"sales":      DeptSales,
	"commercial": DeptSales,
	"support":    DeptSupport,
	"management": DeptManagement,
	"gestion":    DeptManagement,
}

// AllDepartments returns the canonical codes in a stable order.
func AllDepartments() []DepartmentCode {
	return []DepartmentCode{DeptSales, DeptSupport, DeptManagement}
}

// ParseDepartment resolves a department name, canonical or legacy,
// case-insensitively.
func ParseDepartment(s string) (DepartmentCode, error) {
	if code, ok := departmentAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return code, nil
	}
	return "", Invalidf("unknown department %q", s)
}

// Valid reports whether the code belongs to the canonical set.
func (c DepartmentCode) Valid() bool {
	_, ok := departmentLabels[c]
	return ok
}

// Label returns the display name for the code.
func (c DepartmentCode) Label() string {
	if l, ok := departmentLabels[c]; ok {
		return l
	}
	return string(c)
}

// Department is the persisted row collaborators reference.
type Department struct {
	ID   uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code DepartmentCode `gorm:"uniqueIndex;size:16;not null" json:"code"`
}

func (d Department) String() string {
	return fmt.Sprintf("%s (%s)", d.Code.Label(), d.Code)
}
