package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}

	if !isUniqueViolation(unique) {
		t.Error("unique-constraint error not recognized")
	}
	if !isUniqueViolation(fmt.Errorf("create: %w", unique)) {
		t.Error("wrapped unique-constraint error not recognized")
	}

	foreignKey := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintForeignKey,
	}
	if isUniqueViolation(foreignKey) {
		t.Error("foreign-key violation misclassified as unique")
	}
	if isUniqueViolation(errors.New("disk I/O error")) {
		t.Error("plain storage error misclassified as unique")
	}
	if isUniqueViolation(nil) {
		t.Error("nil misclassified as unique")
	}
}
