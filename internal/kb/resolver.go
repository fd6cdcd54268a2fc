package kb

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	boilerplatePattern = regexp.MustCompile(`(what is the|access code for|code for|setting name of|name of code|the code for|setting name for)`)
	codeTokenPattern   = regexp.MustCompile(`\b\d{4,5}\b`)
)

// Source supplies the current knowledge-base snapshot. Implementations must
// return an immutable slice; the resolver never writes through it.
type Source interface {
	Records() []Record
}

// Resolver answers one utterance against the record snapshot and the
// conversation's pending offer. It holds no per-request state and is safe for
// concurrent use.
type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve maps an utterance to a result descriptor and dialogue status.
func (r *Resolver) Resolve(prompt string, offer PendingOffer) (Result, Status) {
	records := r.source.Records()
	if len(records) == 0 {
		return Result{Mode: ModeNotFound}, StatusDataMissing
	}

	text := strings.ToLower(strings.TrimSpace(prompt))
	intent := DetectIntent(text)

	switch intent {
	case IntentExit:
		return Result{Mode: ModeExit}, StatusReady
	case IntentConversational:
		return Result{Mode: ModeNone}, StatusNone
	case IntentConfirmation:
		switch offer.Kind {
		case OfferSubCode:
			rows := filterByCode(records, offer.Code)
			return Result{Mode: ModeSubTable, Code: offer.Code, Table: subCodeTable(rows)}, StatusReady
		case OfferProcedure:
			return Result{Mode: ModeNone}, StatusShowProcedure
		default:
			// A confirmation with nothing pending must never reach the
			// record search below.
			return Result{Mode: ModeNone}, StatusNone
		}
	}

	searchTerm := strings.TrimSpace(boilerplatePattern.ReplaceAllString(text, ""))
	if utf8.RuneCountInString(searchTerm) < 2 || searchTerm == "ok" {
		return Result{Mode: ModeNone}, StatusNone
	}

	var rows []Record
	if codes := codeTokenPattern.FindAllString(searchTerm, -1); len(codes) > 0 {
		rows = filterByCode(records, codes[0])
		if intent == IntentNameQuery && len(rows) > 0 {
			return Result{Mode: ModeNameOnly, Name: rows[0].Name, Code: codes[0]}, StatusReady
		}
	} else {
		rows = filterByName(records, searchTerm, false)
		if len(rows) == 0 {
			rows = filterByName(records, searchTerm, true)
		}
		if intent == IntentCodeQuery && len(rows) > 0 {
			return Result{Mode: ModeNameOnly, Name: rows[0].Name, Code: rows[0].Code}, StatusReady
		}
	}

	if len(rows) == 0 {
		return Result{Mode: ModeNotFound, Query: searchTerm}, StatusDataMissing
	}

	// Codes compare as normalized digit strings, so the visible ordering is
	// lexicographic, not numeric.
	codes := distinctCodes(rows)

	switch {
	case len(codes) > 2:
		return Result{Mode: ModeList, Query: strings.ToUpper(searchTerm), Table: listTable(rows)}, StatusReady
	case len(codes) == 2:
		return Result{Mode: ModeCompare, Query: strings.ToUpper(searchTerm), Table: compareTable(rows, codes[0], codes[1])}, StatusReady
	default:
		deduped := dedupeBySubCode(rows)
		return Result{Mode: ModeSingle, Name: deduped[0].Name, Code: deduped[0].Code, Table: subCodeTable(deduped)}, StatusReady
	}
}

func filterByCode(records []Record, code string) []Record {
	var out []Record
	for _, rec := range records {
		if rec.Code == code {
			out = append(out, rec)
		}
	}
	return out
}

// filterByName matches case-insensitively, either exactly or by substring.
func filterByName(records []Record, term string, substring bool) []Record {
	var out []Record
	for _, rec := range records {
		name := strings.ToLower(rec.Name)
		if substring && strings.Contains(name, term) {
			out = append(out, rec)
		} else if !substring && name == term {
			out = append(out, rec)
		}
	}
	return out
}

func distinctCodes(rows []Record) []string {
	seen := make(map[string]struct{}, len(rows))
	var codes []string
	for _, row := range rows {
		if _, ok := seen[row.Code]; ok {
			continue
		}
		seen[row.Code] = struct{}{}
		codes = append(codes, row.Code)
	}
	sort.Strings(codes)
	return codes
}

func dedupeBySubCode(rows []Record) []Record {
	seen := make(map[string]struct{}, len(rows))
	var out []Record
	for _, row := range rows {
		if _, ok := seen[row.SubCode]; ok {
			continue
		}
		seen[row.SubCode] = struct{}{}
		out = append(out, row)
	}
	return out
}

func subCodeLabel(sub string) string {
	if sub == SubCodeNone {
		return "NA"
	}
	return sub
}

// subCodeTable renders rows for a single code as a sub-code/description
// markdown table.
func subCodeTable(rows []Record) string {
	lines := []string{"| Sub-Code | Description / Values |", "| :--- | :--- |"}
	for _, row := range rows {
		lines = append(lines, "| "+subCodeLabel(row.SubCode)+" | "+FormatDescription(row.Description)+" |")
	}
	return strings.Join(lines, "\n")
}

// listTable renders the distinct (code, name) pairs sorted by code.
func listTable(rows []Record) string {
	type pair struct{ code, name string }
	seen := make(map[pair]struct{}, len(rows))
	var pairs []pair
	for _, row := range rows {
		p := pair{row.Code, row.Name}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].code < pairs[j].code })
	lines := []string{"| Access Code | Setting Name |", "| :--- | :--- |"}
	for _, p := range pairs {
		lines = append(lines, "| "+p.code+" | "+p.name+" |")
	}
	return strings.Join(lines, "\n")
}

// compareTable renders a side-by-side table for exactly two codes, keyed by
// the union of their sub-codes.
func compareTable(rows []Record, code1, code2 string) string {
	name1 := firstNameForCode(rows, code1)
	name2 := firstNameForCode(rows, code2)
	subs := distinctSubCodes(rows)

	lines := []string{
		"| Sub | " + code1 + " (" + name1 + ") | " + code2 + " (" + name2 + ") |",
		"| :--- | :--- | :--- |",
	}
	for _, sub := range subs {
		d1 := descriptionFor(rows, code1, sub)
		d2 := descriptionFor(rows, code2, sub)
		lines = append(lines, "| "+subCodeLabel(sub)+" | "+d1+" | "+d2+" |")
	}
	return strings.Join(lines, "\n")
}

func firstNameForCode(rows []Record, code string) string {
	for _, row := range rows {
		if row.Code == code {
			return row.Name
		}
	}
	return ""
}

func distinctSubCodes(rows []Record) []string {
	seen := make(map[string]struct{}, len(rows))
	var subs []string
	for _, row := range rows {
		if _, ok := seen[row.SubCode]; ok {
			continue
		}
		seen[row.SubCode] = struct{}{}
		subs = append(subs, row.SubCode)
	}
	sort.Strings(subs)
	return subs
}

func descriptionFor(rows []Record, code, sub string) string {
	for _, row := range rows {
		if row.Code == code && row.SubCode == sub {
			return FormatDescription(row.Description)
		}
	}
	return "-"
}
