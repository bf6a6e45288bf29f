package constants

// Damage type codes produced by the intake wizard.
const (
	DamageWater    = "wasser"
	DamageFire     = "feuer"
	DamageBuilding = "gebaeude"
	DamageVehicle  = "kfz"
	DamageGlass    = "glas"
	DamageLegal    = "rechtsfall"
)

// Profession codes used by routing rules, settings and the directory.
const (
	ProfessionDrying   = "trocknung"
	ProfessionPainting = "maler"
	ProfessionAssessor = "gutachter"
	ProfessionVehicle  = "kfz"
	ProfessionGlass    = "glas"
	ProfessionLegal    = "rechtsfall"
)

// Dispatch modes of an assignment settings row.
const (
	DispatchModeManual    = "manual"
	DispatchModeAuto      = "auto"
	DispatchModeBroadcast = "broadcast"
)

// Fallback behavior when auto mode or an expired broadcast finds nobody.
const (
	FallbackInternalOnly = "internal_only"
	FallbackManual       = "manual"
)

// Craftsman roles.
const (
	RoleOwner   = "owner"
	RoleTrainee = "trainee"
)
