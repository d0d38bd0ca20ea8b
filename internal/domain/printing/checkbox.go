package printing

// CheckboxKey names one checkbox on the form
type CheckboxKey string

const (
	CheckPartiesRelated    CheckboxKey = "parties_related"
	CheckPartiesNonRelated CheckboxKey = "parties_non_related"

	CheckContainerizedYes CheckboxKey = "containerized_yes"
	CheckContainerizedNo  CheckboxKey = "containerized_no"

	CheckHazmatYes CheckboxKey = "hazmat_yes"
	CheckHazmatNo  CheckboxKey = "hazmat_no"

	CheckRoutedExportYes CheckboxKey = "routed_export_yes"
	CheckRoutedExportNo  CheckboxKey = "routed_export_no"

	CheckCarnetYes CheckboxKey = "tib_carnet_yes"
	CheckCarnetNo  CheckboxKey = "tib_carnet_no"

	CheckInsureYes CheckboxKey = "insure_yes"
	CheckInsureNo  CheckboxKey = "insure_no"

	CheckFreightPrepaid CheckboxKey = "freight_prepaid"
	CheckFreightCollect CheckboxKey = "freight_collect"

	CheckConsolidate CheckboxKey = "consolidate"
	CheckDirect      CheckboxKey = "direct"

	CheckDocInvoice     CheckboxKey = "doc_commercial_invoice"
	CheckDocPackingList CheckboxKey = "doc_packing_list"
	CheckDocOrigin      CheckboxKey = "doc_certificate_of_origin"

	CheckDesignateForwarder CheckboxKey = "designate_forwarder"
)

// CheckboxPair is a yes/no style pair printed side by side
type CheckboxPair struct {
	First  CheckboxKey
	Second CheckboxKey
}

// CheckboxPairs lists the pairs that read as alternatives on the form
var CheckboxPairs = []CheckboxPair{
	{CheckPartiesRelated, CheckPartiesNonRelated},
	{CheckContainerizedYes, CheckContainerizedNo},
	{CheckHazmatYes, CheckHazmatNo},
	{CheckRoutedExportYes, CheckRoutedExportNo},
	{CheckCarnetYes, CheckCarnetNo},
	{CheckInsureYes, CheckInsureNo},
	{CheckFreightPrepaid, CheckFreightCollect},
	{CheckConsolidate, CheckDirect},
}

// CheckboxState is a sparse map of checkbox key to checked.
// Keys that are absent read as unchecked.
type CheckboxState map[CheckboxKey]bool

// Conflicts returns the pairs where both alternatives are checked.
// Both states are printed as given; callers own exclusivity.
func (s CheckboxState) Conflicts() []CheckboxPair {
	var out []CheckboxPair
	for _, p := range CheckboxPairs {
		if s[p.First] && s[p.Second] {
			out = append(out, p)
		}
	}
	return out
}

// Box characters used by the markup renderer
const (
	GlyphChecked   = "☒"
	GlyphUnchecked = "☐"
)

// Glyph is the resolved appearance of one checkbox
type Glyph struct {
	Checked bool
}

// Markup returns the Unicode ballot box for the glyph
func (g Glyph) Markup() string {
	if g.Checked {
		return GlyphChecked
	}
	return GlyphUnchecked
}

// Resolve returns the glyph for key; unknown keys are unchecked
func Resolve(state CheckboxState, key CheckboxKey) Glyph {
	return Glyph{Checked: state[key]}
}
