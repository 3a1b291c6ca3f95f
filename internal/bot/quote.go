package bot

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/AniketThakur-404/chatapp/internal/errors"
)

// depositShare is the advance collected to confirm a booking.
const depositShare = 0.2

// inr formats integers with Indian digit grouping for price display.
var inr = message.NewPrinter(language.MustParse("en-IN"))

// Total computes the tax-exclusive price for the session's selections.
//
// It is a pure function of the session fields and the price book. Callers
// must only invoke it once every field required for the active service type
// is populated; the step ordering of the engine guarantees that, so a
// missing field here is a contract violation and returns a typed error
// rather than a silently wrong price.
func Total(pb *PriceBook, s *Session) (int, error) {
	switch s.ServiceType {
	case ServiceFilmWrap:
		coverage := s.FilmCoverage
		if coverage == CoverageExterior && s.FilmInteriorAddon {
			coverage = CoverageBoth
		}
		switch coverage {
		case CoverageInterior:
			return pb.FilmInterior(s.SelectedPackage)
		case CoverageBoth:
			return pb.FilmBoth(s.VehicleClass, s.SelectedPackage)
		case CoverageExterior:
			return pb.FilmExterior(s.VehicleClass, s.SelectedPackage)
		default:
			return 0, apperrors.SessionContract("film coverage not set")
		}
	case ServiceCeramic:
		return pb.Ceramic(s.VehicleClass, s.ProtectionDuration)
	case ServiceGraphene:
		return pb.Graphene(s.SelectedPackage, s.VehicleClass)
	default:
		return 0, apperrors.SessionContract("service type not set")
	}
}

// Deposit returns the advance amount for a total, rounded to the rupee.
func Deposit(total int) int {
	return int(float64(total)*depositShare + 0.5)
}

// FormatPrice renders a base price for display, e.g. "₹1,18,000 + 18% GST".
func FormatPrice(amount int) string {
	return "₹" + inr.Sprintf("%d", amount) + " + 18% GST"
}

// PackageName returns the selected collection/program name, e.g.
// "ESSENTIAL Collection" or "7-Year Care Program".
func PackageName(s *Session) string {
	switch s.ServiceType {
	case ServiceFilmWrap:
		return strings.ToUpper(s.SelectedPackage) + " Collection"
	case ServiceGraphene:
		return strings.ToUpper(s.SelectedPackage) + " Package"
	case ServiceCeramic:
		return strings.Replace(string(s.ProtectionDuration), "yr", "-Year", 1) + " Care Program"
	}
	return ""
}

// PackageDetails names the product family, including the effective film
// coverage when applicable.
func PackageDetails(s *Session) string {
	switch s.ServiceType {
	case ServiceFilmWrap:
		coverage := s.FilmCoverage
		if coverage == CoverageExterior && s.FilmInteriorAddon {
			coverage = CoverageBoth
		}
		return "Advanced Pre-Cut PPF - " + titleCase(string(coverage))
	case ServiceCeramic:
		return "Signature Ceramic Coating"
	case ServiceGraphene:
		return "Graphene-Infused Coating"
	}
	return ""
}

// VehicleDisplayName returns the customer-facing vehicle class label.
func VehicleDisplayName(vc VehicleClass) string {
	switch vc {
	case VehicleCompact:
		return "Compact SUV/Sedan (e.g., Creta, Seltos)"
	case VehicleLargeSUV:
		return "Full-Size SUV / MUV (e.g., Fortuner, Safari)"
	case VehicleLuxury:
		return "Luxury Class (e.g., BMW, Mercedes, Audi)"
	case VehicleBike:
		return "Bike/Superbike"
	}
	return string(vc)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
