package bot

import (
	"fmt"
	"math"

	apperrors "github.com/AniketThakur-404/chatapp/internal/errors"
)

// taxRate is the GST rate baked into the list prices below. Stored prices
// are the tax-exclusive base, derived once at construction.
const taxRate = 0.18

// List prices (tax inclusive, rupees) as published. These literal tables
// are the single source of truth for every vehicle class; the book derives
// nothing at runtime.
var (
	filmExteriorList = map[VehicleClass]map[string]int{
		VehicleCompact:  {TierEssential: 82600, TierEssentialMatte: 94400, TierCore: 112100, TierTitanium: 165200},
		VehicleLargeSUV: {TierEssential: 94400, TierEssentialMatte: 106200, TierCore: 123900, TierTitanium: 177000},
		VehicleLuxury:   {TierEssential: 106200, TierEssentialMatte: 118000, TierCore: 135700, TierTitanium: 188800},
		VehicleBike:     {TierEssential: 20060, TierEssentialMatte: 23600, TierCore: 25960, TierTitanium: 37760},
	}

	// Interior film is priced per tier regardless of vehicle class.
	filmInteriorList = map[string]int{
		TierEssential: 11000, TierEssentialMatte: 13000, TierCore: 15000, TierTitanium: 20000,
	}

	ceramicList = map[VehicleClass]map[Duration]int{
		VehicleCompact:  {Duration1Year: 15000, Duration3Year: 25000, Duration5Year: 30000, Duration7Year: 36000},
		VehicleLargeSUV: {Duration1Year: 16000, Duration3Year: 27000, Duration5Year: 32000, Duration7Year: 37000},
		VehicleLuxury:   {Duration1Year: 17000, Duration3Year: 33000, Duration5Year: 40000, Duration7Year: 50000},
		VehicleBike:     {Duration1Year: 3000, Duration3Year: 6000, Duration5Year: 6000, Duration7Year: 6000},
	}

	grapheneList = map[string]map[VehicleClass]int{
		TierStandard: {VehicleCompact: 40000, VehicleLargeSUV: 45000, VehicleLuxury: 50000, VehicleBike: 9000},
		TierPremium:  {VehicleCompact: 60000, VehicleLargeSUV: 70000, VehicleLuxury: 80000, VehicleBike: 14000},
	}
)

// PriceBook holds the tax-exclusive base prices for all three product
// lines. Built once at startup and never mutated afterwards.
type PriceBook struct {
	filmExterior map[VehicleClass]map[string]int
	filmInterior map[string]int
	filmBoth     map[VehicleClass]map[string]int
	ceramic      map[VehicleClass]map[Duration]int
	graphene     map[string]map[VehicleClass]int
}

// baseOf converts a tax-inclusive list price to its base price, rounding
// half away from zero.
func baseOf(list int) int {
	return int(math.Round(float64(list) / (1 + taxRate)))
}

// NewPriceBook builds the price book from the list tables.
//
// Each cell is rounded independently. The combined exterior+interior film
// price is computed by summing the two list prices first and rounding the
// divided sum once; summing two already-rounded bases can drift by a rupee.
func NewPriceBook() *PriceBook {
	pb := &PriceBook{
		filmExterior: make(map[VehicleClass]map[string]int, len(filmExteriorList)),
		filmInterior: make(map[string]int, len(filmInteriorList)),
		filmBoth:     make(map[VehicleClass]map[string]int, len(filmExteriorList)),
		ceramic:      make(map[VehicleClass]map[Duration]int, len(ceramicList)),
		graphene:     make(map[string]map[VehicleClass]int, len(grapheneList)),
	}

	for tier, list := range filmInteriorList {
		pb.filmInterior[tier] = baseOf(list)
	}
	for vc, tiers := range filmExteriorList {
		ext := make(map[string]int, len(tiers))
		both := make(map[string]int, len(tiers))
		for tier, list := range tiers {
			ext[tier] = baseOf(list)
			both[tier] = baseOf(list + filmInteriorList[tier])
		}
		pb.filmExterior[vc] = ext
		pb.filmBoth[vc] = both
	}
	for vc, durations := range ceramicList {
		row := make(map[Duration]int, len(durations))
		for d, list := range durations {
			row[d] = baseOf(list)
		}
		pb.ceramic[vc] = row
	}
	for tier, classes := range grapheneList {
		row := make(map[VehicleClass]int, len(classes))
		for vc, list := range classes {
			row[vc] = baseOf(list)
		}
		pb.graphene[tier] = row
	}

	return pb
}

// A lookup miss on any of the methods below signals a table/code mismatch,
// never a user-facing condition, so they fail fast with a typed error.

// FilmExterior returns the exterior-only film price for a class and tier.
func (pb *PriceBook) FilmExterior(vc VehicleClass, tier string) (int, error) {
	if p, ok := pb.filmExterior[vc][tier]; ok {
		return p, nil
	}
	return 0, apperrors.PriceLookup(fmt.Sprintf("film exterior %s/%s", vc, tier))
}

// FilmInterior returns the interior-only film price for a tier.
func (pb *PriceBook) FilmInterior(tier string) (int, error) {
	if p, ok := pb.filmInterior[tier]; ok {
		return p, nil
	}
	return 0, apperrors.PriceLookup(fmt.Sprintf("film interior %s", tier))
}

// FilmBoth returns the combined exterior+interior film price.
func (pb *PriceBook) FilmBoth(vc VehicleClass, tier string) (int, error) {
	if p, ok := pb.filmBoth[vc][tier]; ok {
		return p, nil
	}
	return 0, apperrors.PriceLookup(fmt.Sprintf("film both %s/%s", vc, tier))
}

// Ceramic returns the ceramic program price for a class and duration.
func (pb *PriceBook) Ceramic(vc VehicleClass, d Duration) (int, error) {
	if p, ok := pb.ceramic[vc][d]; ok {
		return p, nil
	}
	return 0, apperrors.PriceLookup(fmt.Sprintf("ceramic %s/%s", vc, d))
}

// Graphene returns the graphene coating price for a tier and class.
func (pb *PriceBook) Graphene(tier string, vc VehicleClass) (int, error) {
	if p, ok := pb.graphene[tier][vc]; ok {
		return p, nil
	}
	return 0, apperrors.PriceLookup(fmt.Sprintf("graphene %s/%s", tier, vc))
}
