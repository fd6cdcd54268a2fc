package kb

import (
	"strings"
	"testing"
)

type staticSource []Record

func (s staticSource) Records() []Record { return s }

var fixtureRecords = staticSource{
	{Code: "6210", Name: "Network Protocol", SubCode: "0", Description: "0: IPv4 1: IPv6"},
	{Code: "6210", Name: "Network Protocol", SubCode: "1", Description: "Timeout in seconds"},
	{Code: "6215", Name: "Network Retry", SubCode: "0", Description: "0: off 1: on"},
	{Code: "9021", Name: "Duplex Tray", SubCode: "-", Description: "No data"},
	{Code: "4500", Name: "Sleep Timer", SubCode: "0", Description: "Minutes until sleep"},
}

func newTestResolver(records staticSource) *Resolver {
	return NewResolver(records)
}

func TestResolveEmptyStore(t *testing.T) {
	r := newTestResolver(nil)
	result, status := r.Resolve("access code for duplex tray", PendingOffer{})
	if result.Mode != ModeNotFound || status != StatusDataMissing {
		t.Fatalf("empty store: got (%s, %s), want (NOT_FOUND, DATA_MISSING)", result.Mode, status)
	}
}

func TestResolveExit(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("no", PendingOffer{})
	if result.Mode != ModeExit || status != StatusReady {
		t.Fatalf("exit: got (%s, %s)", result.Mode, status)
	}
}

func TestResolveConversational(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("hello", PendingOffer{})
	if result.Mode != ModeNone || status != StatusNone {
		t.Fatalf("conversational: got (%s, %s)", result.Mode, status)
	}
}

// A confirmation with no pending offer is a no-op and must never hit the
// record set.
func TestResolveConfirmationNoOffer(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	for _, word := range []string{"yes", "ok", "show me", "correct"} {
		result, status := r.Resolve(word, PendingOffer{})
		if result.Mode != ModeNone || status != StatusNone {
			t.Fatalf("confirmation %q without offer: got (%s, %s), want (NONE, NONE)", word, result.Mode, status)
		}
	}
}

func TestResolveConfirmationSubCodeOffer(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("yes", PendingOffer{Kind: OfferSubCode, Code: "6210"})
	if result.Mode != ModeSubTable || status != StatusReady {
		t.Fatalf("sub-code offer: got (%s, %s)", result.Mode, status)
	}
	if result.Code != "6210" {
		t.Fatalf("sub-code offer code = %q", result.Code)
	}
	if !strings.Contains(result.Table, "| 0 | 0: IPv4 <br> 1: IPv6 |") {
		t.Fatalf("sub table missing formatted row:\n%s", result.Table)
	}
	if !strings.Contains(result.Table, "| 1 | Timeout in seconds |") {
		t.Fatalf("sub table missing second row:\n%s", result.Table)
	}
}

func TestResolveConfirmationProcedureOffer(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("okay", PendingOffer{Kind: OfferProcedure})
	if result.Mode != ModeNone || status != StatusShowProcedure {
		t.Fatalf("procedure offer: got (%s, %s)", result.Mode, status)
	}
}

func TestResolveCodeQueryByName(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("code for Network Protocol", PendingOffer{})
	if result.Mode != ModeNameOnly || status != StatusReady {
		t.Fatalf("code query: got (%s, %s)", result.Mode, status)
	}
	if result.Name != "Network Protocol" || result.Code != "6210" {
		t.Fatalf("code query payload = (%q, %q)", result.Name, result.Code)
	}
}

func TestResolveNameQueryByCode(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("what is the name of 9021", PendingOffer{})
	if result.Mode != ModeNameOnly || status != StatusReady {
		t.Fatalf("name query: got (%s, %s)", result.Mode, status)
	}
	if result.Name != "Duplex Tray" || result.Code != "9021" {
		t.Fatalf("name query payload = (%q, %q)", result.Name, result.Code)
	}
}

func TestResolveBareCodeSingle(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("4500", PendingOffer{})
	if result.Mode != ModeSingle || status != StatusReady {
		t.Fatalf("bare code: got (%s, %s)", result.Mode, status)
	}
	if result.Name != "Sleep Timer" || result.Code != "4500" {
		t.Fatalf("bare code payload = (%q, %q)", result.Name, result.Code)
	}
	if !strings.Contains(result.Table, "| 0 | Minutes until sleep |") {
		t.Fatalf("single table:\n%s", result.Table)
	}
}

// The "-" sub-code sentinel renders as NA in tables.
func TestResolveSingleSentinelSubCode(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, _ := r.Resolve("9021", PendingOffer{})
	if result.Mode != ModeSingle {
		t.Fatalf("mode = %s", result.Mode)
	}
	if !strings.Contains(result.Table, "| NA | No data |") {
		t.Fatalf("sentinel row not rendered as NA:\n%s", result.Table)
	}
}

func TestResolveSingleDedupesSubCodes(t *testing.T) {
	records := staticSource{
		{Code: "4500", Name: "Sleep Timer", SubCode: "0", Description: "first"},
		{Code: "4500", Name: "Sleep Timer", SubCode: "0", Description: "second"},
		{Code: "4500", Name: "Sleep Timer", SubCode: "1", Description: "third"},
	}
	r := newTestResolver(records)
	result, _ := r.Resolve("4500", PendingOffer{})
	if strings.Count(result.Table, "| 0 |") != 1 {
		t.Fatalf("sub-code 0 not deduped:\n%s", result.Table)
	}
	if !strings.Contains(result.Table, "| 0 | first |") {
		t.Fatalf("dedupe should keep the first row:\n%s", result.Table)
	}
}

func TestResolveTwoCodesCompare(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("network", PendingOffer{})
	if result.Mode != ModeCompare || status != StatusReady {
		t.Fatalf("compare: got (%s, %s)", result.Mode, status)
	}
	if result.Query != "NETWORK" {
		t.Fatalf("compare query = %q", result.Query)
	}
	if !strings.Contains(result.Table, "| Sub | 6210 (Network Protocol) | 6215 (Network Retry) |") {
		t.Fatalf("compare header:\n%s", result.Table)
	}
	// Sub-code 1 exists only for 6210; the 6215 cell is the "-" placeholder.
	if !strings.Contains(result.Table, "| 1 | Timeout in seconds | - |") {
		t.Fatalf("compare missing-cell row:\n%s", result.Table)
	}
}

func TestResolveManyCodesList(t *testing.T) {
	records := append(staticSource{}, fixtureRecords...)
	records = append(records, Record{Code: "6218", Name: "Network Mask", SubCode: "0", Description: "No data"})
	r := newTestResolver(records)
	result, status := r.Resolve("network", PendingOffer{})
	if result.Mode != ModeList || status != StatusReady {
		t.Fatalf("list: got (%s, %s)", result.Mode, status)
	}
	// Distinct pairs, ordered lexicographically by code.
	want := "| Access Code | Setting Name |\n| :--- | :--- |\n| 6210 | Network Protocol |\n| 6215 | Network Retry |\n| 6218 | Network Mask |"
	if result.Table != want {
		t.Fatalf("list table:\ngot:\n%s\nwant:\n%s", result.Table, want)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, status := r.Resolve("stapler alignment", PendingOffer{})
	if result.Mode != ModeNotFound || status != StatusDataMissing {
		t.Fatalf("not found: got (%s, %s)", result.Mode, status)
	}
	if result.Query != "stapler alignment" {
		t.Fatalf("not found query = %q", result.Query)
	}
}

// Short leftovers after boilerplate stripping never reach the record search.
// The guard counts runes, so a single multi-byte character is still short.
func TestResolveShortSearchTermNoOp(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	for _, prompt := range []string{"what is the", "code for x", "é", "code for 機"} {
		result, status := r.Resolve(prompt, PendingOffer{})
		if result.Mode != ModeNone || status != StatusNone {
			t.Fatalf("short term %q: got (%s, %s)", prompt, result.Mode, status)
		}
	}
}

// Only 4-5 digit runs count as code tokens; the first one wins.
func TestResolveDigitTokenExtraction(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, _ := r.Resolve("compare 9021 with 6210", PendingOffer{})
	if result.Mode != ModeSingle || result.Code != "9021" {
		t.Fatalf("first token should win: mode %s code %q", result.Mode, result.Code)
	}

	// A 3-digit run is not a code token, so the term falls through to the
	// name search and misses.
	result, status := r.Resolve("621", PendingOffer{})
	if result.Mode != ModeNotFound || status != StatusDataMissing {
		t.Fatalf("3-digit token: got (%s, %s)", result.Mode, status)
	}
}

func TestResolveNameMatchFallsBackToSubstring(t *testing.T) {
	r := newTestResolver(fixtureRecords)
	result, _ := r.Resolve("sleep", PendingOffer{})
	if result.Mode != ModeSingle || result.Name != "Sleep Timer" {
		t.Fatalf("substring fallback: mode %s name %q", result.Mode, result.Name)
	}
}
