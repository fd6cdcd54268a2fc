package kb

// Canned responses. The offer suffixes repeat the marker strings declared in
// offer.go; see the comment there before editing any wording.
const (
	msgDataMissing = "\U0001F50D I couldn't find any technical data for that. Please check the spelling or try the Access Code."

	msgProcedure = "### \U0001F6E0️ 08 Service Mode Procedure\n\n" +
		"1. Go to **User Function** -> **Setting Icon**.\n" +
		"2. Enter **Password** -> Select **08 Code**.\n" +
		"3. Enter the **08 Code** -> Press **Enter**.\n" +
		"4. Enter **Sub Code** -> **Enter**.\n" +
		"5. Enter **Value** -> **Enter** to save."

	msgExit = "Understood. Let me know if you need help with other codes!"

	msgGreeting = "Hello! I am your Technical Assistant. How can I help you today?"
)

// Render turns a result descriptor and status into the ordered chunks the
// chat endpoint streams. Chunk boundaries carry no meaning beyond incremental
// delivery; the concatenation is the answer that gets persisted. The intent
// is the one detected for the utterance being answered and only changes the
// phrasing of NAME_ONLY answers. Unknown modes fall back to the greeting so a
// malformed descriptor can never fail the request.
func Render(result Result, status Status, intent Intent) []string {
	if status == StatusDataMissing {
		return []string{msgDataMissing}
	}
	if status == StatusShowProcedure {
		return []string{msgProcedure}
	}

	switch result.Mode {
	case ModeExit:
		return []string{msgExit}
	case ModeNameOnly:
		if intent == IntentNameQuery {
			return []string{
				"The setting name for **" + result.Code + "** is **" + result.Name + "**.\n\n" +
					" \U0001F4A1 Do you want to know the sub code for that? (Code: " + result.Code + ")",
			}
		}
		return []string{
			"The Access Code for **" + result.Name + "** is **" + result.Code + "**.\n\n" +
				" \U0001F4A1 Do you want to know the sub code for that? (Code: " + result.Code + ")",
		}
	case ModeSubTable:
		return []string{
			"Here are the sub codes for code **" + result.Code + "**:\n\n" + result.Table +
				"\n\n \U0001F4A1 Do you want to know how to set the 08 code?",
		}
	case ModeSingle:
		return []string{
			"Technical Record for **" + result.Name + "** (Code: " + result.Code + ")\n\n" + result.Table +
				"\n\n\U0001F4A1 **Suggestion:** Type **Yes** to see the 08 procedure.",
		}
	case ModeList:
		return []string{
			"I found several entries for **" + result.Query + "**:\n\n" + result.Table +
				"\n\n\U0001F4A1 Please type the specific **Access Code** you need.",
		}
	case ModeCompare:
		return []string{
			"### \U0001F4CA Side-by-Side Comparison: " + result.Query + "\n\n" + result.Table +
				"\n\n\U0001F4A1 **Tip:** Use these to check state differences.",
		}
	default:
		return []string{msgGreeting}
	}
}
