package services

import "claims-platform/pkg/constants"

// damageProfessions maps intake damage-type codes to the profession taxonomy
// used by routing. A water damage needs a drying specialist, not a "water"
// specialist.
var damageProfessions = map[string]string{
	constants.DamageWater:    constants.ProfessionDrying,
	constants.DamageFire:     constants.ProfessionPainting,
	constants.DamageBuilding: constants.ProfessionAssessor,
	constants.DamageVehicle:  constants.ProfessionVehicle,
	constants.DamageGlass:    constants.ProfessionGlass,
	constants.DamageLegal:    constants.ProfessionLegal,
}

// MapProfession derives the required profession from a damage-type code.
// Unknown codes pass through unchanged so new damage types never hard-fail
// the pipeline; they surface later as no_candidates.
func MapProfession(damageType string) string {
	if profession, ok := damageProfessions[damageType]; ok {
		return profession
	}
	return damageType
}
