// Package bot implements the conversation engine for the UNLAYR vehicle
// protection concierge: per-user sessions, the step state machine, price
// books, and quote rendering. It has no transport dependencies; the webhook
// layer and the CLI harness both drive it through Engine.ProcessMessage.
package bot

// Step identifies a position in the conversation state machine.
type Step string

// Conversation steps. StepInitial is the only entry point; the expert-contact
// and confirmation branches end in messages that only offer a restart, so
// there is no hard terminal step.
const (
	StepInitial            Step = "initial"
	StepServiceSelection   Step = "service_selection"
	StepVehicleSelection   Step = "vehicle_selection"
	StepFilmCoverage       Step = "film_coverage_selection"
	StepFilmPackage        Step = "film_package_selection"
	StepFilmInteriorUpsell Step = "film_interior_upsell"
	StepGraphenePackage    Step = "graphene_package_selection"
	StepCeramicDuration    Step = "ceramic_duration_selection"
	StepLocationInput      Step = "location_input"
	StepExpertContact      Step = "expert_contact"
	StepConfirmation       Step = "simplified_confirmation"
)

// ServiceType is the product line a user is shopping for.
type ServiceType string

const (
	ServiceFilmWrap ServiceType = "film_wrap"
	ServiceCeramic  ServiceType = "ceramic"
	ServiceGraphene ServiceType = "graphene"
)

// VehicleClass buckets vehicles into the pricing classes.
type VehicleClass string

const (
	VehicleCompact  VehicleClass = "compact"
	VehicleLargeSUV VehicleClass = "large_suv"
	VehicleLuxury   VehicleClass = "luxury"
	VehicleBike     VehicleClass = "bike"
)

// Coverage is the treated surface area for film wrap.
type Coverage string

const (
	CoverageExterior Coverage = "exterior"
	CoverageInterior Coverage = "interior"
	CoverageBoth     Coverage = "both"
)

// Duration is a ceramic care-program length.
type Duration string

const (
	Duration1Year Duration = "1yr"
	Duration3Year Duration = "3yr"
	Duration5Year Duration = "5yr"
	Duration7Year Duration = "7yr"
)

// Package tiers. Film wrap offers the first four, graphene the last two;
// ceramic programs are keyed by Duration instead.
const (
	TierEssential      = "essential"
	TierEssentialMatte = "essential_matte"
	TierCore           = "core"
	TierTitanium       = "titanium"
	TierStandard       = "standard"
	TierPremium        = "premium"
)
