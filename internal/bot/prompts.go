package bot

import "fmt"

// Response is the outbound message for one processed utterance: the text
// body plus a bounded list of suggested replies. The transport layer is
// responsible for encoding the replies into the provider's button or list
// format.
type Response struct {
	Text    string   `json:"text"`
	Buttons []string `json:"buttons,omitempty"`
}

var serviceButtons = []string{
	"Advanced Pre Cut PPF (An Invisible, Self-Healing Shield)",
	"Ceramic Coating (A Deep, Mirror-Like Finish)",
	"Graphene Coating (Diamond-Hard Protection)",
	"Custom Service",
	"Expert Recommendation (Guide Me to the Ideal Solution)",
	"Start Over",
}

var vehicleButtons = []string{
	"Compact SUV/Sedan (e.g., Creta, Seltos)",
	"Full-Size SUV / MUV (e.g., Fortuner, Safari)",
	"Luxury Class (e.g., BMW, Mercedes, Audi)",
	"Bike/Superbike",
	"Previous",
	"Start Over",
}

var coverageButtons = []string{
	"Exterior Paint",
	"Interior Surfaces",
	"Both Exterior & Interior",
	"Previous",
	"Start Over",
}

var filmPackageButtons = []string{
	"Select ESSENTIAL",
	"Select ESSENTIAL MATTE",
	"Select CORE",
	"Select TITANIUM",
	"Request Expert Call",
	"Previous",
	"Start Over",
}

var upsellButtons = []string{
	"Add Interior PPF",
	"Continue with Exterior Only",
	"Expert Consultation",
	"Previous",
	"Start Over",
}

var grapheneButtons = []string{
	"Select Standard",
	"Select Premium",
	"Request Expert Call",
	"Previous",
	"Start Over",
}

var ceramicButtons = []string{
	"1-Yr Plan",
	"3-Yr Plan",
	"5-Yr Plan",
	"7-Yr Plan",
	"About Maintenance",
	"Talk to Expert",
	"Previous",
	"Start Over",
}

var expertContactButtons = []string{
	"Request Expert Callback",
	"Continue Chat Booking",
	"Previous",
	"Start Over",
}

var confirmationButtons = []string{
	"Confirm Booking",
	"Request Expert Call",
	"Modify Details",
	"Previous",
	"Start Over",
}

func welcomeResponse() Response {
	return Response{
		Text: `Welcome to the UNLAYR experience. We are India's premier studio for bespoke automotive protection, delivered with white-glove service to your doorstep.

Service Area: Delhi NCR only
Website: https://unlayr.com/
Instagram: https://www.instagram.com/unlayr.in

I am your digital concierge and can assist you in crafting the perfect protection plan for your vehicle. At any moment, you may request a call from our senior protection expert by typing 'Expert'.

Please select the nature of protection you envision for your vehicle:`,
		Buttons: serviceButtons,
	}
}

func servicePrompt() Response {
	return Response{
		Text:    "Please select the protection service you envision:",
		Buttons: serviceButtons,
	}
}

func vehiclePrompt() Response {
	return Response{
		Text:    "Understood. To tailor our offerings precisely, please classify your vehicle.",
		Buttons: vehicleButtons,
	}
}

func vehicleReprompt() Response {
	return Response{
		Text:    "Please select your vehicle classification:",
		Buttons: vehicleButtons,
	}
}

func coveragePrompt() Response {
	return Response{
		Text: `An excellent choice. Paint Protection Film is the ultimate defense against scratches and swirls.

To begin, where would you like us to apply this protection?`,
		Buttons: coverageButtons,
	}
}

func coverageReprompt() Response {
	return Response{
		Text:    "Please select your preferred coverage area:",
		Buttons: coverageButtons,
	}
}

// filmPackagePrompt renders the tier list with prices for the session's
// effective coverage and vehicle class.
func filmPackagePrompt(pb *PriceBook, s *Session) (Response, error) {
	var prices map[string]int
	switch s.FilmCoverage {
	case CoverageBoth:
		prices = pb.filmBoth[s.VehicleClass]
	case CoverageExterior:
		prices = pb.filmExterior[s.VehicleClass]
	case CoverageInterior:
		prices = pb.filmInterior
	}
	for _, tier := range []string{TierEssential, TierEssentialMatte, TierCore, TierTitanium} {
		if _, ok := prices[tier]; !ok {
			return Response{}, fmt.Errorf("no %s film price for coverage %q class %q", tier, s.FilmCoverage, s.VehicleClass)
		}
	}

	text := "Our PPF collections deliver unrivaled clarity and self-healing protection:\n\n" +
		fmt.Sprintf("- ESSENTIAL - 7yr warranty: %s\n", FormatPrice(prices[TierEssential])) +
		fmt.Sprintf("- ESSENTIAL MATTE - 7yr warranty: %s\n", FormatPrice(prices[TierEssentialMatte])) +
		fmt.Sprintf("- CORE - 10yr warranty: %s\n", FormatPrice(prices[TierCore])) +
		fmt.Sprintf("- TITANIUM - Lifetime warranty: %s\n\n", FormatPrice(prices[TierTitanium])) +
		"Includes: Full PPF, paint correction, detailing & complimentary ceramic coating"

	return Response{Text: text, Buttons: filmPackageButtons}, nil
}

func filmPackageReprompt() Response {
	return Response{
		Text:    "Please choose your PPF collection:",
		Buttons: filmPackageButtons,
	}
}

func upsellPrompt(pb *PriceBook, s *Session) (Response, error) {
	price, err := pb.FilmInterior(s.SelectedPackage)
	if err != nil {
		return Response{}, err
	}
	tier := PackageName(s)
	text := fmt.Sprintf(`Excellent choice! Your %s exterior PPF is confirmed.

Would you like to add interior PPF protection for your dashboard, screens, and trim panels?

Interior PPF Protection
- Same %s quality
- Dashboard, console & trim coverage
- Investment: %s

This completes your comprehensive protection package.`, tier, tier, FormatPrice(price))

	return Response{Text: text, Buttons: upsellButtons}, nil
}

func upsellReprompt() Response {
	return Response{
		Text:    "Would you like to add interior PPF protection?",
		Buttons: upsellButtons,
	}
}

func graphenePrompt(pb *PriceBook, s *Session) (Response, error) {
	standard, err := pb.Graphene(TierStandard, s.VehicleClass)
	if err != nil {
		return Response{}, err
	}
	premium, err := pb.Graphene(TierPremium, s.VehicleClass)
	if err != nil {
		return Response{}, err
	}

	text := fmt.Sprintf(`An excellent decision for achieving a breathtaking, liquid-glass finish. Our Graphene-infused coatings create a 10H diamond-hard shield over your paintwork to shield against scratches, UV rays, and heat, plus hydrophobic self-cleaning.

For your %s, we present the UNLAYR Collection:

Standard Package
- 5-Year Performance Guarantee
- 1+4 periodic checks
- Investment: %s

Premium Package
- 10-Year Performance Guarantee
- 1+9 periodic checks
- Investment: %s

THE UNLAYR GRAPHENE PACKAGE INCLUDES -
- Premium Graphene Coating Application
- Coverage: Full body, glass, alloys, lights & side mirrors
- Multi-stage paint correction
- Swirl mark & scratch removal
- Deep interior cleaning & detailing
- Exterior clay & decontamination
- Doorstep luxury application`,
		VehicleDisplayName(s.VehicleClass), FormatPrice(standard), FormatPrice(premium))

	return Response{Text: text, Buttons: grapheneButtons}, nil
}

func grapheneReprompt() Response {
	return Response{
		Text:    "Please choose your Graphene package:",
		Buttons: grapheneButtons,
	}
}

func ceramicPrompt(pb *PriceBook, s *Session) (Response, error) {
	prices := make(map[Duration]int, 4)
	for _, d := range []Duration{Duration1Year, Duration3Year, Duration5Year, Duration7Year} {
		p, err := pb.Ceramic(s.VehicleClass, d)
		if err != nil {
			return Response{}, err
		}
		prices[d] = p
	}

	text := fmt.Sprintf(`Excellent choice. We use our Signature Ceramic Coating for a flawless, liquid-glass finish.

Simply choose the duration of your Care Program. Each plan guarantees the performance with a complimentary Annual Maintenance Service to ensure lasting brilliance.

(All programs include a full paint correction with the initial application.)

1-Year Plan | The Annual Refresh
- 1-Year Guarantee & 1 Maintenance Service
- Investment: %s

3-Year Plan | The Enthusiast's Choice
- 3-Year Guarantee & 3 Maintenance Services
- Investment: %s

5-Year Plan | The Professional's Package
- 5-Year Guarantee & 5 Maintenance Services
- Includes Interior Detailing
- Investment: %s

7-Year Plan | The Ultimate Care Program
- 7-Year Guarantee & 7 Maintenance Services
- Includes Interior Detailing
- Investment: %s`,
		FormatPrice(prices[Duration1Year]), FormatPrice(prices[Duration3Year]),
		FormatPrice(prices[Duration5Year]), FormatPrice(prices[Duration7Year]))

	return Response{Text: text, Buttons: ceramicButtons}, nil
}

func ceramicReprompt() Response {
	return Response{
		Text:    "Please select your ceramic care program:",
		Buttons: ceramicButtons,
	}
}

func maintenanceInfo() Response {
	return Response{
		Text: "Our complimentary Annual Maintenance Service includes a thorough inspection, touch-up coating application if needed, and full exterior decontamination to maintain the coating's performance and brilliance.",
		Buttons: []string{
			"1-Yr Plan",
			"3-Yr Plan",
			"5-Yr Plan",
			"7-Yr Plan",
			"Talk to Expert",
			"Previous",
			"Start Over",
		},
	}
}

func locationPrompt() Response {
	return Response{
		Text: `To arrange our at-home service, please provide the address for the vehicle's treatment.

We serve the Delhi NCR region (Delhi, Noida, Gurgaon, Faridabad, Ghaziabad)

Example: "Sector 56, Gurgaon" or "CP, New Delhi"
(Or share your location)`,
		Buttons: []string{"Previous", "Start Over"},
	}
}

func locationShortReprompt() Response {
	return Response{
		Text: `Could you please provide your location in Delhi NCR?
(e.g., Sector 15, Gurgaon or CP, New Delhi)
(Or share your location)`,
		Buttons: []string{"Previous", "Start Over"},
	}
}

func locationAreaReprompt() Response {
	return Response{
		Text: `We currently serve the Delhi NCR region only. Please provide an address in Delhi, Noida, Gurgaon, Faridabad, or Ghaziabad.

Example: "Sector 15, Gurgaon" or "CP, New Delhi"
(Or share your location)`,
		Buttons: []string{"Previous", "Start Over"},
	}
}

// locationSummary is the interim booking summary shown after a serviceable
// address is captured, before the contact-preference step.
func locationSummary(pb *PriceBook, s *Session) (Response, error) {
	total, err := Total(pb, s)
	if err != nil {
		return Response{}, err
	}
	text := fmt.Sprintf(`Exquisite! Our certified applicators are available in your area.

Your Booking Summary:
- Service: %s
- Vehicle: %s
- Location: %s
- Total Investment: %s

To proceed with your booking, our expert will call you to coordinate the perfect timing and finalize your appointment.`,
		PackageName(s), VehicleDisplayName(s.VehicleClass), s.Location, FormatPrice(total))

	return Response{Text: text, Buttons: expertContactButtons}, nil
}

func expertPrompt() Response {
	return Response{
		Text: `Expert Consultation Available

Our Senior Protection Expert is ready to assist you with:

- Detailed service consultation & technical specifications
- Bespoke recommendations for your specific vehicle
- Digital vehicle assessment coordination
- Investment clarification & custom solutions
- Personalized booking assistance

Contact Options:

Call Us Directly: +91-XXXX-XXXX-XXX
(Available 10 AM - 7 PM, Mon-Sat)

Request Callback: Our expert will call you within 15 minutes

Continue on Chat: Proceed with standard booking process`,
		Buttons: expertContactButtons,
	}
}

func expertContactReprompt() Response {
	return Response{
		Text:    "Please choose how you'd like to proceed:",
		Buttons: expertContactButtons,
	}
}

func callbackConfirmed() Response {
	return Response{
		Text: `Callback Scheduled

Thank you! Our Senior Protection Expert will call you within the next 15 minutes to discuss your requirements in detail.

Please ensure your phone is available at the number you contacted us from.

What to expect in the call:
- Personalized service recommendations
- Technical specifications discussion
- Digital vehicle assessment arrangement
- Custom pricing (if applicable)
- Booking confirmation with preferred slots

Our expert will handle everything from here to ensure you receive the perfect UNLAYR experience.`,
		Buttons: []string{"Start Over"},
	}
}

// confirmationSummary renders the pre-confirmation booking recap including
// the deposit note.
func confirmationSummary(pb *PriceBook, s *Session) (Response, error) {
	total, err := Total(pb, s)
	if err != nil {
		return Response{}, err
	}
	text := fmt.Sprintf(`Booking Confirmation

Treatment: UNLAYR %s
Service: %s
Vehicle: %s
Location: %s
Total Investment: %s

Our team will contact you within 24 hours to coordinate the perfect timing for your appointment and arrange the booking deposit of %s.`,
		PackageName(s), PackageDetails(s), VehicleDisplayName(s.VehicleClass),
		s.Location, FormatPrice(total), FormatPrice(Deposit(total)))

	return Response{Text: text, Buttons: confirmationButtons}, nil
}

func bookingConfirmed() Response {
	return Response{
		Text: `Booking Confirmed!

Thank you for choosing UNLAYR! Your booking has been confirmed.

Next Steps:
- Our team will call you within 24 hours
- We'll coordinate the perfect timing for your appointment
- Payment details and scheduling will be finalized during the call

Contact Information:
Direct Line: +91-XXXX-XXXX-XXX
Email: info@unlayr.com
Website: https://unlayr.com/

We look forward to providing you with the ultimate UNLAYR experience!`,
		Buttons: []string{"Start Over"},
	}
}

func confirmationReprompt() Response {
	return Response{
		Text:    "Please choose one of the options to proceed:",
		Buttons: confirmationButtons,
	}
}

func menuResponse() Response {
	return Response{
		Text: `UNLAYR Quick Menu:
- 'start' - Begin protection consultation
- 'services' - View our services
- 'expert' - Connect with senior protection expert
- 'location' - Check service areas (Delhi NCR only)
- 'previous' - Go back to last step
- 'start over' - Restart conversation`,
		Buttons: []string{"Start Protection Plan", "Expert Consultation", "View Services"},
	}
}

func servicesResponse() Response {
	return Response{
		Text: `Explore Our Portfolio

Advanced Pre-Cut PPF
The ultimate invisible, self-healing shield with precision engineering

Graphene Coating
Diamond-hard 10H protection with liquid-glass finish

Ceramic Coating
Mirror-like brilliance with hydrophobic self-cleaning

Each treatment includes complimentary maintenance and doorstep luxury application.`,
		Buttons: []string{"Craft Protection Plan", "Expert Consultation"},
	}
}

func pricesResponse() Response {
	return Response{
		Text: `Investment Overview:

PPF Collections (Exterior):
- ESSENTIAL Collection: From ₹70,000 + 18% GST
- CORE Collection: From ₹95,000 + 18% GST
- TITANIUM Collection: From ₹1,40,000 + 18% GST

Graphene Coatings:
- Standard Package: From ₹34,000 + 18% GST
- Premium Package: From ₹51,000 + 18% GST

Ceramic Programs:
- 1-Year Plan: ₹12,700 + 18% GST
- 7-Year Ultimate: ₹42,400 + 18% GST

Exact investment varies by vehicle class. Begin consultation for precise quote.`,
		Buttons: []string{"Begin Consultation", "Expert Call"},
	}
}

func unknownResponse() Response {
	return Response{
		Text: `I didn't quite understand that. Allow me to assist you:

- Use the provided buttons for guidance
- Type 'Expert' for specialist consultation
- Type 'menu' to explore all options
- Type 'previous' to go back
- Type 'start over' to restart

How may I better serve you?`,
		Buttons: []string{"Expert Consultation", "Menu", "Previous", "Start Over"},
	}
}

func previousEmptyResponse() Response {
	return Response{
		Text: `You're at the beginning of our conversation. There's no previous step to go back to.

Would you like to start over or continue?`,
		Buttons: []string{"Start Over", "Continue", "Expert Consultation"},
	}
}
