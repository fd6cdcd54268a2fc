package kb

import (
	"regexp"
	"strings"
)

// Marker strings embedded in rendered answers. They are the wire contract
// between one turn's answer and the next turn's confirmation: DetectOffer
// recognizes exactly these, so rewording them breaks the follow-up flow.
const (
	subCodeOfferMarker   = "know the sub code"
	procedureOfferMarker = "how to set the 08 code"
	procedureHintMarker  = "\U0001F4A1" // 💡, carried by every suggestion suffix
)

var offerCodePattern = regexp.MustCompile(`\(Code: (\d+)\)`)

// OfferKind discriminates the pending-offer variants.
type OfferKind int

const (
	OfferNone OfferKind = iota
	OfferSubCode
	OfferProcedure
)

// PendingOffer is the one-step dialogue state a conversation carries between
// turns: the previous answer may have offered the sub-code table for a code,
// or the 08 setting procedure. A bare confirmation in the next turn resolves
// against it.
type PendingOffer struct {
	Kind OfferKind
	Code string
}

// DetectOffer reconstructs the pending offer from a rendered assistant
// message. The sub-code offer takes precedence; it must embed its code via
// the "(Code: <digits>)" tag to count. Any remaining suggestion suffix is
// treated as a procedure offer.
func DetectOffer(assistantText string) PendingOffer {
	if assistantText == "" {
		return PendingOffer{}
	}
	if strings.Contains(assistantText, subCodeOfferMarker) {
		if m := offerCodePattern.FindStringSubmatch(assistantText); m != nil {
			return PendingOffer{Kind: OfferSubCode, Code: m[1]}
		}
	}
	if strings.Contains(assistantText, procedureOfferMarker) || strings.Contains(assistantText, procedureHintMarker) {
		return PendingOffer{Kind: OfferProcedure}
	}
	return PendingOffer{}
}

// Encode serializes the offer for storage on a conversation row.
func (o PendingOffer) Encode() string {
	switch o.Kind {
	case OfferSubCode:
		return "sub_code:" + o.Code
	case OfferProcedure:
		return "procedure"
	default:
		return ""
	}
}

// DecodeOffer is the inverse of Encode. Unknown values decode to no offer.
func DecodeOffer(value string) PendingOffer {
	switch {
	case strings.HasPrefix(value, "sub_code:"):
		code := strings.TrimPrefix(value, "sub_code:")
		if code != "" {
			return PendingOffer{Kind: OfferSubCode, Code: code}
		}
	case value == "procedure":
		return PendingOffer{Kind: OfferProcedure}
	}
	return PendingOffer{}
}
