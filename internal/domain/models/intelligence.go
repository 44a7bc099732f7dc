package models

// EntityKind identifies the type of an extracted intelligence item
type EntityKind string

const (
	EntityUPIID        EntityKind = "upi_id"
	EntityBankAccount  EntityKind = "bank_account"
	EntityIFSCCode     EntityKind = "ifsc_code"
	EntityPhishingLink EntityKind = "phishing_link"
)

// Entity is a single extracted intelligence item
type Entity struct {
	Kind  EntityKind `json:"kind"`
	Value string     `json:"value"`
}

// Intelligence groups extracted entities by kind for the API response
type Intelligence struct {
	UPIIDs        []string `json:"upiIds"`
	BankAccounts  []string `json:"bankAccounts"`
	IFSCCodes     []string `json:"ifscCodes"`
	PhishingLinks []string `json:"phishingLinks"`
}

// NewIntelligence returns an Intelligence with empty (non-nil) slices
func NewIntelligence() Intelligence {
	return Intelligence{
		UPIIDs:        []string{},
		BankAccounts:  []string{},
		IFSCCodes:     []string{},
		PhishingLinks: []string{},
	}
}

// Count returns the total number of items across all kinds
func (i Intelligence) Count() int {
	return len(i.UPIIDs) + len(i.BankAccounts) + len(i.IFSCCodes) + len(i.PhishingLinks)
}

// Add appends an entity to the matching bucket
func (i *Intelligence) Add(e Entity) {
	switch e.Kind {
	case EntityUPIID:
		i.UPIIDs = append(i.UPIIDs, e.Value)
	case EntityBankAccount:
		i.BankAccounts = append(i.BankAccounts, e.Value)
	case EntityIFSCCode:
		i.IFSCCodes = append(i.IFSCCodes, e.Value)
	case EntityPhishingLink:
		i.PhishingLinks = append(i.PhishingLinks, e.Value)
	}
}
