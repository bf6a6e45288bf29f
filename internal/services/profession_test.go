package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claims-platform/pkg/constants"
)

func TestMapProfession(t *testing.T) {
	assert.Equal(t, constants.ProfessionDrying, MapProfession(constants.DamageWater))
	assert.Equal(t, constants.ProfessionPainting, MapProfession(constants.DamageFire))
	assert.Equal(t, constants.ProfessionAssessor, MapProfession(constants.DamageBuilding))
	assert.Equal(t, constants.ProfessionVehicle, MapProfession(constants.DamageVehicle))
	assert.Equal(t, constants.ProfessionGlass, MapProfession(constants.DamageGlass))
	assert.Equal(t, constants.ProfessionLegal, MapProfession(constants.DamageLegal))
}

func TestMapProfessionUnknownCodePassesThrough(t *testing.T) {
	assert.Equal(t, "sturm", MapProfession("sturm"))
	assert.Equal(t, "", MapProfession(""))
}
