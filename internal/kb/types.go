package kb

// Record is one row of the configuration-code knowledge base. Records are
// normalized at ingestion time and never mutated afterwards; the whole set is
// replaced wholesale when the workbook changes.
type Record struct {
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	SubCode     string `db:"sub_code" json:"sub_code"`
	Description string `db:"description" json:"description"`
}

// Sentinel values applied during ingestion for absent fields.
const (
	SubCodeNone   = "-"
	NoDescription = "No data"
)

// Intent is the category assigned to a user utterance.
type Intent string

const (
	IntentConfirmation   Intent = "CONFIRMATION"
	IntentExit           Intent = "EXIT"
	IntentNameQuery      Intent = "NAME_QUERY"
	IntentCodeQuery      Intent = "CODE_QUERY"
	IntentConversational Intent = "CONVERSATIONAL"
	IntentTechnical      Intent = "TECHNICAL"
)

// Mode tags a Result with the shape of answer the resolver produced.
type Mode string

const (
	ModeExit     Mode = "EXIT"
	ModeNotFound Mode = "NOT_FOUND"
	ModeNameOnly Mode = "NAME_ONLY"
	ModeSubTable Mode = "SUB_TABLE"
	ModeSingle   Mode = "SINGLE"
	ModeList     Mode = "LIST"
	ModeCompare  Mode = "COMPARE"
	ModeNone     Mode = "NONE"
)

// Result is the mode-tagged outcome of resolving one utterance. Only the
// fields relevant to the mode are populated.
type Result struct {
	Mode  Mode
	Code  string
	Name  string
	Query string
	Table string
}

// Status is an orthogonal signal telling the renderer which templated branch
// to use.
type Status string

const (
	StatusReady         Status = "READY"
	StatusDataMissing   Status = "DATA_MISSING"
	StatusShowProcedure Status = "SHOW_PROCEDURE"
	StatusNone          Status = "NONE"
)
