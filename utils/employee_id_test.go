package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salescomm/commission_backend/models"
)

func TestEmployeeIDPrefix(t *testing.T) {
	assert.Equal(t, "E", EmployeeIDPrefix(models.RoleExecutive))
	assert.Equal(t, "M", EmployeeIDPrefix(models.RoleManager))
	assert.Equal(t, "A", EmployeeIDPrefix(models.RoleAdmin))
}

func TestNextEmployeeIDFirst(t *testing.T) {
	assert.Equal(t, "E001", NextEmployeeID("E", ""))
	assert.Equal(t, "M001", NextEmployeeID("M", ""))
}

func TestNextEmployeeIDIncrements(t *testing.T) {
	assert.Equal(t, "E002", NextEmployeeID("E", "E001"))
	assert.Equal(t, "E010", NextEmployeeID("E", "E009"))
	assert.Equal(t, "A100", NextEmployeeID("A", "A099"))
}

func TestNextEmployeeIDPadsPastThreeDigits(t *testing.T) {
	assert.Equal(t, "E1000", NextEmployeeID("E", "E999"))
}
