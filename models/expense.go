package models

import "strings"

const (
	ExpenseRent        = "rent"
	ExpenseUtilities   = "utilities"
	ExpenseSalary      = "salary"
	ExpensePackaging   = "packaging"
	ExpenseTransport   = "transport"
	ExpenseMaintenance = "maintenance"
	ExpenseMarketing   = "marketing"
	ExpenseOther       = "other"
)

var expenseTypeNames = map[string]string{
	ExpenseRent:        "Rent",
	ExpenseUtilities:   "Utilities",
	ExpenseSalary:      "Salary",
	ExpensePackaging:   "Packaging",
	ExpenseTransport:   "Transport",
	ExpenseMaintenance: "Maintenance",
	ExpenseMarketing:   "Marketing",
	ExpenseOther:       "Other expense",
}

// NormalizeExpenseType lowercases s and defaults empty to "other".
func NormalizeExpenseType(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ExpenseOther, nil
	}
	if _, ok := expenseTypeNames[s]; !ok {
		return "", &ValidationError{Field: "expenseType", Message: "is not a known expense type"}
	}
	return s, nil
}

func ExpenseTypeName(s string) string {
	if name, ok := expenseTypeNames[s]; ok {
		return name
	}
	return expenseTypeNames[ExpenseOther]
}
