package legis

// Preamble is one of the two mutually exclusive header layouts of an Act:
// *ActPreamble for ordinary Acts and *SupplyActPreamble for supply and revenue
// Acts.
type Preamble interface {
	preamble()
}

// ActPreamble is the preamble of an ordinary Act.
type ActPreamble struct {
	LongTitle string
	Enactment string
}

// SupplyActPreamble is the preamble of supply style Acts, which open with the
// Commons' petition to the Sovereign instead of a plain enacting formula.
type SupplyActPreamble struct {
	Apply    []string
	Date     []string
	Petition []string
}

func (*ActPreamble) preamble()       {}
func (*SupplyActPreamble) preamble() {}
