package types

// Outcome discriminates a Resolution.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
)

func (o Outcome) String() string {
	if o == OutcomeFound {
		return "found"
	}
	return "not_found"
}

// Resolution is the result of resolving one accepted scan.  Exactly one of
// Record (Found) or RawCode (NotFound) is meaningful; RawCode is always the
// payload as it was decoded, before normalization.
type Resolution struct {
	Outcome Outcome
	Record  AssetRecord
	RawCode string
}

func Found(rec AssetRecord, raw string) Resolution {
	return Resolution{Outcome: OutcomeFound, Record: rec, RawCode: raw}
}

func NotFound(raw string) Resolution {
	return Resolution{Outcome: OutcomeNotFound, RawCode: raw}
}

func (r Resolution) IsFound() bool { return r.Outcome == OutcomeFound }
