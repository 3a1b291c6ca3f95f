package bot

import (
	"errors"
	"testing"

	apperrors "github.com/AniketThakur-404/chatapp/internal/errors"
)

func TestTotal(t *testing.T) {
	pb := NewPriceBook()

	tests := []struct {
		name string
		sess Session
		want int
	}{
		{
			name: "film exterior only",
			sess: Session{
				ServiceType:     ServiceFilmWrap,
				VehicleClass:    VehicleCompact,
				FilmCoverage:    CoverageExterior,
				SelectedPackage: TierEssential,
			},
			want: 70000,
		},
		{
			name: "film exterior with interior addon prices as both",
			sess: Session{
				ServiceType:       ServiceFilmWrap,
				VehicleClass:      VehicleCompact,
				FilmCoverage:      CoverageExterior,
				SelectedPackage:   TierEssential,
				FilmInteriorAddon: true,
			},
			want: 79322, // round((82600 + 11000) / 1.18)
		},
		{
			name: "film interior only ignores vehicle class",
			sess: Session{
				ServiceType:     ServiceFilmWrap,
				VehicleClass:    VehicleLuxury,
				FilmCoverage:    CoverageInterior,
				SelectedPackage: TierTitanium,
			},
			want: 16949, // round(20000 / 1.18)
		},
		{
			name: "film both coverage",
			sess: Session{
				ServiceType:     ServiceFilmWrap,
				VehicleClass:    VehicleBike,
				FilmCoverage:    CoverageBoth,
				SelectedPackage: TierCore,
			},
			want: 34712, // round((25960 + 15000) / 1.18)
		},
		{
			name: "ceramic by class and duration",
			sess: Session{
				ServiceType:        ServiceCeramic,
				VehicleClass:       VehicleLuxury,
				ProtectionDuration: Duration7Year,
			},
			want: 42373,
		},
		{
			name: "graphene by tier and class",
			sess: Session{
				ServiceType:     ServiceGraphene,
				VehicleClass:    VehicleLargeSUV,
				SelectedPackage: TierPremium,
			},
			want: 59322, // round(70000 / 1.18)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Total(pb, &tt.sess)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Total() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestTotal_ContractViolations(t *testing.T) {
	pb := NewPriceBook()

	tests := []struct {
		name string
		sess Session
	}{
		{
			name: "no service type",
			sess: Session{},
		},
		{
			name: "film without coverage",
			sess: Session{ServiceType: ServiceFilmWrap, VehicleClass: VehicleCompact, SelectedPackage: TierCore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Total(pb, &tt.sess)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var appErr *apperrors.Error
			if !errors.As(err, &appErr) {
				t.Fatalf("error type = %T, expected *errors.Error", err)
			}
			if appErr.Code != apperrors.CodeSessionContract {
				t.Errorf("code = %q, expected %q", appErr.Code, apperrors.CodeSessionContract)
			}
		})
	}
}

// Total must not mutate the session it prices.
func TestTotal_Pure(t *testing.T) {
	pb := NewPriceBook()
	sess := Session{
		ServiceType:       ServiceFilmWrap,
		VehicleClass:      VehicleCompact,
		FilmCoverage:      CoverageExterior,
		SelectedPackage:   TierEssential,
		FilmInteriorAddon: true,
	}
	before := sess.snapshot()

	if _, err := Total(pb, &sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.snapshot() != before {
		t.Errorf("session mutated by Total: %+v", sess)
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{70000, 14000},
		{42373, 8475}, // 8474.6 rounds up
		{1, 0},        // 0.2 rounds down
		{3, 1},
	}

	for _, tt := range tests {
		if got := Deposit(tt.total); got != tt.want {
			t.Errorf("Deposit(%d) = %d, expected %d", tt.total, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{70000, "₹70,000 + 18% GST"},
		{160000, "₹1,60,000 + 18% GST"},
		{999, "₹999 + 18% GST"},
		{12711864, "₹1,27,11,864 + 18% GST"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.amount); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, expected %q", tt.amount, got, tt.want)
		}
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want string
	}{
		{
			name: "film collection",
			sess: Session{ServiceType: ServiceFilmWrap, SelectedPackage: TierEssentialMatte},
			want: "ESSENTIAL_MATTE Collection",
		},
		{
			name: "graphene package",
			sess: Session{ServiceType: ServiceGraphene, SelectedPackage: TierPremium},
			want: "PREMIUM Package",
		},
		{
			name: "ceramic care program",
			sess: Session{ServiceType: ServiceCeramic, ProtectionDuration: Duration7Year},
			want: "7-Year Care Program",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackageName(&tt.sess); got != tt.want {
				t.Errorf("PackageName() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestPackageDetails(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want string
	}{
		{
			name: "film exterior",
			sess: Session{ServiceType: ServiceFilmWrap, FilmCoverage: CoverageExterior},
			want: "Advanced Pre-Cut PPF - Exterior",
		},
		{
			name: "film exterior with addon reports both",
			sess: Session{ServiceType: ServiceFilmWrap, FilmCoverage: CoverageExterior, FilmInteriorAddon: true},
			want: "Advanced Pre-Cut PPF - Both",
		},
		{
			name: "ceramic",
			sess: Session{ServiceType: ServiceCeramic},
			want: "Signature Ceramic Coating",
		},
		{
			name: "graphene",
			sess: Session{ServiceType: ServiceGraphene},
			want: "Graphene-Infused Coating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackageDetails(&tt.sess); got != tt.want {
				t.Errorf("PackageDetails() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestVehicleDisplayName(t *testing.T) {
	if got := VehicleDisplayName(VehicleBike); got != "Bike/Superbike" {
		t.Errorf("VehicleDisplayName(bike) = %q", got)
	}
	if got := VehicleDisplayName("hovercraft"); got != "hovercraft" {
		t.Errorf("VehicleDisplayName(unknown) = %q, expected passthrough", got)
	}
}
