package providers

import (
	"strings"
	"time"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/infrastructure/persistence/models"
)

// applyShipment copies the declaration fields shared by every source
func applyShipment(doc *printing.Document, d models.ShipmentDetails) {
	doc.PointOfOrigin = d.PointOfOrigin
	doc.DestinationCountry = d.DestinationCountry
	doc.InBondCode = d.InBondCode
	doc.EntryNumber = d.EntryNumber
	doc.LoadingPier = d.LoadingPier
	doc.TransportMethod = d.TransportMethod
	doc.Carrier = d.Carrier
	doc.PortOfExport = d.PortOfExport
	doc.PortOfUnloading = d.PortOfUnloading
	doc.LicenseNumber = d.LicenseNumber
	doc.ECCN = d.ECCN
	doc.ITN = d.ITN
	doc.InsuranceAmount = d.InsuranceAmount
	doc.CODAmount = d.CODAmount
	doc.Instructions = d.Instructions
	doc.IntermediateConsignee = printing.Party{
		Name:  d.IntermediateName,
		Lines: models.SplitLines(d.IntermediateAddress),
	}
	doc.Signer = printing.Signer{
		Name:  d.SignerName,
		Title: d.SignerTitle,
		Phone: d.SignerPhone,
		Email: d.SignerEmail,
	}
	doc.Checkboxes = checkboxState(d.CheckboxMap())
}

func checkboxState(raw map[string]bool) printing.CheckboxState {
	state := make(printing.CheckboxState, len(raw))
	for k, v := range raw {
		state[printing.CheckboxKey(strings.TrimSpace(k))] = v
	}
	return state
}

// compact keeps the non-blank entries in order
func compact(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
