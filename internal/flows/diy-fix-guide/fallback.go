package diyfixguide

import (
	"fmt"
	"strings"
)

// Category groups issues that share a fallback template.
type Category string

const (
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryDrywall    Category = "drywall"
	CategoryGeneral    Category = "general"
)

const (
	maxIssueSnippet    = 180
	maxConstraintNote  = 140
	maxOverview        = 230
	maxFallbackTools   = 6
	fallbackEstimation = "About 90 minutes including prep and cleanup."
)

// Keyword order matters: the first category with the most hits wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryPlumbing, []string{"leak", "drip", "faucet", "tap", "pipe", "sink", "toilet", "drain", "clog", "shower", "valve", "water heater"}},
	{CategoryElectrical, []string{"outlet", "switch", "breaker", "wiring", "wire", "socket", "circuit", "light fixture", "flicker", "spark", "gfci"}},
	{CategoryDrywall, []string{"drywall", "sheetrock", "plaster", "hole in the wall", "hole in wall", "crack", "dent", "nail pop", "patch"}},
}

// Classify picks the fallback template for an issue description by keyword
// count. Descriptions with no hits are general.
func Classify(issue string) Category {
	text := strings.ToLower(issue)

	best, bestHits := CategoryGeneral, 0
	for _, entry := range categoryKeywords {
		hits := 0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = entry.category, hits
		}
	}
	return best
}

type template struct {
	safetyGear       []string
	tools            []Tool
	materials        []string
	preparation      []string
	steps            []Step
	validationChecks []string
	troubleshooting  []TroubleshootingTip
	redFlags         []string
	cleanup          []string
}

var templates = map[Category]template{
	CategoryPlumbing: {
		safetyGear: []string{"Nitrile gloves", "Safety glasses", "Closed-toe shoes"},
		tools: []Tool{
			{Name: "Adjustable wrench", Alternative: "Slip-joint pliers"},
			{Name: "Bucket or catch pan"},
			{Name: "Shop towels or rags"},
			{Name: "Non-contact voltage tester", Optional: true},
			{Name: "Flashlight"},
			{Name: "Utility knife", Optional: true},
		},
		materials: []string{
			"Replacement part that matches the damaged section",
			"Thread seal tape or joint compound",
			"All-purpose cleaner and disinfectant",
			"Heavy duty trash bag for debris",
		},
		preparation: []string{
			"Shut off power or water serving the area before touching any hardware.",
			"Clear the workspace and lay down towels or a tray to catch runoff.",
			"Photograph the existing setup to match connections during reassembly.",
		},
		steps: []Step{
			{Title: "Stabilize the area", Detail: "Use buckets or towels to manage leaks and verify the shutoff stops the flow before removing parts.", Caution: "Do not leave water running when fittings are open."},
			{Title: "Inspect and mark components", Detail: "Identify the cracked or loose parts and mark connection points so replacements align with the original layout.", Caution: "Take photos if more than one joint will be disassembled."},
			{Title: "Disassemble the damaged section", Detail: "Loosen fittings slowly and support pipes or fixtures to prevent stress on nearby connections.", Caution: "Wear gloves to avoid cuts from sharp edges."},
			{Title: "Install replacement parts", Detail: "Apply thread seal tape where needed and tighten connections hand tight plus a quarter turn with a wrench.", Caution: "Do not over tighten plastic components."},
			{Title: "Test and monitor", Detail: "Restore service gradually, watch each joint for drips, and leave the area open for at least ten minutes to confirm the fix.", Caution: "Shut off service immediately if you hear hissing or see pooling water."},
		},
		validationChecks: []string{
			"Run the fixture for two minutes and look for moisture under all joints.",
			"Feel around the repaired area for dampness after the first hour.",
			"Verify surrounding surfaces are dry the following morning.",
		},
		troubleshooting: []TroubleshootingTip{
			{Symptom: "Minor drip returns within the first day.", Fix: "Retighten connections and reapply seal tape if threads feel loose."},
			{Symptom: "Persistent leak at a glued joint.", Fix: "Replace the joint with a new coupling rather than trying to reseal old adhesive."},
			{Symptom: "Water stops flowing after reassembly.", Fix: "Confirm shutoff valves are fully open and supply lines are not kinked."},
		},
		redFlags: []string{
			"Shutoff valves fail to close or are frozen in place.",
			"Structural damage, sagging, or mold is visible around the affected area.",
			"You are unsure how to match replacement parts or meet building codes.",
		},
		cleanup: []string{
			"Dry the workspace completely and dispose of soaked materials.",
			"Return tools to storage and document the repair date and parts used.",
			"Check the area weekly for a month to confirm the leak does not return.",
		},
	},
	CategoryElectrical: {
		safetyGear: []string{"Insulated gloves", "Safety glasses", "Rubber-soled shoes"},
		tools: []Tool{
			{Name: "Non-contact voltage tester"},
			{Name: "Insulated screwdrivers"},
			{Name: "Wire stripper", Alternative: "Combination pliers"},
			{Name: "Flashlight or headlamp"},
			{Name: "Electrical tape"},
			{Name: "Multimeter", Optional: true},
		},
		materials: []string{
			"Replacement device rated for the circuit amperage",
			"Wire nuts sized for the conductors",
			"Cover plate that matches the fixture",
		},
		preparation: []string{
			"Switch off the breaker that feeds the circuit and label it.",
			"Confirm the power is off with a voltage tester on every wire.",
			"Photograph the wiring before disconnecting anything.",
		},
		steps: []Step{
			{Title: "Confirm the circuit is dead", Detail: "Test the device and each conductor with a voltage tester before touching any terminal.", Caution: "Some boxes carry more than one circuit; test every wire."},
			{Title: "Remove the faulty device", Detail: "Unscrew the cover and device, then pull it forward gently without straining the conductors.", Caution: "Stop if insulation crumbles or wires show scorch marks."},
			{Title: "Transfer the connections", Detail: "Move one wire at a time to the matching terminal on the replacement, keeping hot, neutral and ground in the same positions.", Caution: "Never connect a ground wire to a hot terminal."},
			{Title: "Secure and insulate", Detail: "Tighten terminal screws firmly, wrap the device sides with electrical tape and fold wires back into the box.", Caution: "Do not pinch conductors behind the mounting screws."},
			{Title: "Restore power and test", Detail: "Switch the breaker back on and confirm the device works and a tester shows correct wiring.", Caution: "Turn the breaker off again at any sign of heat, buzzing or sparks."},
		},
		validationChecks: []string{
			"The device powers a known working lamp or appliance.",
			"A plug-in tester reports correct wiring.",
			"The cover plate stays cool after thirty minutes of use.",
		},
		troubleshooting: []TroubleshootingTip{
			{Symptom: "Breaker trips as soon as power is restored.", Fix: "Turn the breaker off and look for a bare conductor touching the box or another wire."},
			{Symptom: "Device works intermittently.", Fix: "Recheck terminal screws and wire nuts for loose connections."},
			{Symptom: "Tester reports reversed polarity.", Fix: "Swap the hot and neutral conductors on the device terminals."},
		},
		redFlags: []string{
			"Wiring is aluminium, cloth-insulated or shows burn marks.",
			"The breaker keeps tripping with nothing plugged in.",
			"You cannot identify which breaker controls the circuit.",
		},
		cleanup: []string{
			"Collect wire offcuts and old devices for proper disposal.",
			"Update the breaker panel labels if they were unclear.",
			"Recheck the repaired device for warmth after a day of normal use.",
		},
	},
	CategoryDrywall: {
		safetyGear: []string{"Dust mask", "Safety glasses", "Work gloves"},
		tools: []Tool{
			{Name: "Putty knife", Alternative: "Drywall taping knife"},
			{Name: "Utility knife"},
			{Name: "Sanding block"},
			{Name: "Stud finder", Optional: true},
			{Name: "Drop cloth"},
			{Name: "Paint roller or brush", Optional: true},
		},
		materials: []string{
			"Lightweight joint compound",
			"Self-adhesive mesh patch or drywall offcut",
			"Primer and matching wall paint",
		},
		preparation: []string{
			"Check the wall for pipes or cables before cutting.",
			"Lay a drop cloth and move furniture away from the wall.",
			"Trim loose paper and crumbled gypsum from the damaged area.",
		},
		steps: []Step{
			{Title: "Prepare the opening", Detail: "Cut the damaged section back to solid drywall so the edges are firm and square.", Caution: "Keep cuts shallow near outlets and plumbing walls."},
			{Title: "Apply the patch", Detail: "Cover the opening with a mesh patch or a fitted drywall piece backed by furring strips.", Caution: "Patches must sit flush with the surrounding wall."},
			{Title: "Spread the first coat", Detail: "Apply a thin coat of joint compound past the patch edges and feather it outwards.", Caution: "Thick coats crack as they dry."},
			{Title: "Sand and recoat", Detail: "Once dry, sand lightly and apply a second wider coat to blend the repair.", Caution: "Wear a dust mask while sanding."},
			{Title: "Prime and paint", Detail: "Prime the dried patch and paint it to match the rest of the wall.", Caution: "Unprimed compound shows through paint as a dull patch."},
		},
		validationChecks: []string{
			"The patch is flat when checked with a straightedge.",
			"No edges or tape lines show under raking light.",
			"Paint colour and sheen match the surrounding wall.",
		},
		troubleshooting: []TroubleshootingTip{
			{Symptom: "Hairline cracks appear in the compound.", Fix: "Sand the area and apply a thin skim coat."},
			{Symptom: "The patch bulges out from the wall.", Fix: "Cut it back and reset it with better backing support."},
			{Symptom: "The repair is visible after painting.", Fix: "Prime the spot again and repaint the whole wall section corner to corner."},
		},
		redFlags: []string{
			"The damage keeps returning or grows over time.",
			"The wall is damp, stained or smells of mildew.",
			"The wall may contain asbestos or lead paint.",
		},
		cleanup: []string{
			"Vacuum dust from the floor and nearby surfaces.",
			"Seal leftover joint compound so it stays usable.",
			"Inspect the repair after a week for shrinkage cracks.",
		},
	},
	CategoryGeneral: {
		safetyGear: []string{"Work gloves", "Safety glasses", "Closed-toe shoes"},
		tools: []Tool{
			{Name: "Screwdriver set"},
			{Name: "Adjustable wrench", Alternative: "Slip-joint pliers"},
			{Name: "Tape measure"},
			{Name: "Flashlight"},
			{Name: "Utility knife", Optional: true},
			{Name: "Cordless drill", Optional: true},
		},
		materials: []string{
			"Replacement part that matches the damaged component",
			"Assorted fasteners",
			"All-purpose cleaner",
		},
		preparation: []string{
			"Turn off power, water or gas serving the item before you start.",
			"Clear the workspace and protect nearby surfaces.",
			"Photograph the setup before taking anything apart.",
		},
		steps: []Step{
			{Title: "Make the area safe", Detail: "Isolate utilities that feed the item and confirm nothing can start up while you work.", Caution: "Do not skip isolation even for a quick check."},
			{Title: "Find the failed part", Detail: "Inspect the item closely and compare it with the photos to identify what is worn, loose or broken.", Caution: "Handle broken edges with gloves."},
			{Title: "Remove the damaged component", Detail: "Take the part out carefully, keeping fasteners organised in the order they came out.", Caution: "Support heavy parts before releasing the last fastener."},
			{Title: "Fit the replacement", Detail: "Install the new part in the same orientation and tighten fasteners evenly.", Caution: "Do not force parts that do not line up."},
			{Title: "Test the repair", Detail: "Restore utilities and operate the item several times while watching for problems.", Caution: "Stop and isolate again at any unusual noise, smell or leak."},
		},
		validationChecks: []string{
			"The item operates normally through several cycles.",
			"No leaks, noises or loose parts are present after an hour.",
			"The repair still holds the following day.",
		},
		troubleshooting: []TroubleshootingTip{
			{Symptom: "The problem returns soon after the repair.", Fix: "Recheck that the replacement part matches the original specification."},
			{Symptom: "Parts do not line up on reassembly.", Fix: "Compare against your photos and reverse the last steps."},
			{Symptom: "The item will not start after the repair.", Fix: "Confirm utilities are restored and connections are fully seated."},
		},
		redFlags: []string{
			"The repair involves gas lines, structural members or the main electrical panel.",
			"You find water damage, mold or scorching behind the item.",
			"You are unsure which replacement part or code requirement applies.",
		},
		cleanup: []string{
			"Clean the workspace and dispose of old parts responsibly.",
			"Note the repair date and parts used for future reference.",
			"Check the repair weekly for a month.",
		},
	},
}

// BuildFallbackGuide returns a deterministic repair plan for input. It is
// used when no model produced a usable guide, so it always satisfies
// GetOutputSchema.
func BuildFallbackGuide(input Input) Guide {
	tpl := templates[Classify(input.IssueDescription)]

	issue := strings.Join(strings.Fields(input.IssueDescription), " ")
	if issue == "" {
		issue = "the reported problem"
	}
	issue = truncateRunes(issue, maxIssueSnippet)

	room := strings.TrimSpace(input.LocationContext)
	if room == "" {
		room = "workspace"
	}

	constraintNote := "No special constraints given."
	if c := strings.TrimSpace(input.Constraints); c != "" {
		constraintNote = truncateRunes(c, maxConstraintNote)
	}

	overview := fmt.Sprintf("Fallback plan to stabilize and repair the issue at the %s. Focus stays on safe containment and replacement steps for %s.", room, issue)
	if len([]rune(overview)) > maxOverview {
		overview = truncateRunes(overview, maxOverview-3) + "..."
	}

	return Guide{
		Overview:               overview,
		Difficulty:             difficultyFor(input.SkillLevel),
		EstimatedTime:          fallbackEstimation,
		SafetyGear:             clone(tpl.safetyGear),
		RequiredTools:          toolsFor(input.ToolsAvailable, tpl.tools),
		Materials:              clone(tpl.materials),
		Preparation:            clone(tpl.preparation),
		StepByStep:             append([]Step(nil), tpl.steps...),
		ValidationChecks:       clone(tpl.validationChecks),
		Troubleshooting:        append([]TroubleshootingTip(nil), tpl.troubleshooting...),
		WhenToCallProfessional: append(clone(tpl.redFlags), "Constraints limit the fix: "+constraintNote),
		CleanupAndMaintenance:  clone(tpl.cleanup),
	}
}

// difficultyFor maps a skill level to a guide difficulty. The fallback never
// claims a fix is easy.
func difficultyFor(skill string) string {
	if skill == "advanced" {
		return "advanced"
	}
	return "moderate"
}

func toolsFor(available []string, defaults []Tool) []Tool {
	if len(available) == 0 {
		return append([]Tool(nil), defaults...)
	}
	if len(available) > maxFallbackTools {
		available = available[:maxFallbackTools]
	}
	tools := make([]Tool, 0, len(available))
	for _, name := range available {
		tools = append(tools, Tool{Name: name})
	}
	return tools
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
