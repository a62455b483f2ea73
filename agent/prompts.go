package agent

import "fmt"

// systemTemplate is the assistant persona shown at the start of every turn,
// with the user's current memory injected.
const systemTemplate = `You are a helpful assistant who lives in a chatbot user interface whose singular purpose is to improve the life of the user.

What you remember about this user:
%s

You have access to an 'update_memory' tool. Use it to save or update important information about the user. The memory system uses flexible temporal markers like [recorded:], [since:], [until:], [on:], [scheduled:], [as_of:], and [expires:] to track when information was mentioned and when it is relevant.

Any information you submit will be combined with the user's existing memory and saved to the user's memory file. You may also provide instructions for how to update the existing memory.

Do save:
- Personal information (name, age, location)
- Preferences (likes, dislikes, favorites), including preferences about how you behave
- Important, durable facts about the user's life
- Updates or deletions required to keep the memory accurate for future conversations
- Things the user explicitly asks you to remember

Don't save:
- Single-use information not likely to be referenced in future conversations
- Temporary states like "I'm tired today"
- Conversation mechanics: what we just discussed`

// mergeTemplate instructs the merge-step model call. The %s placeholders are
// the existing memory, the new information and the recording date.
const mergeTemplate = `You are updating a user's memory file.

Current memory:
%s

New information to add:
%s

Merge these together into a single memory string that:
- Keeps all important facts from both
- Resolves contradictions in favor of the newer information
- Preserves first-person phrasing
- Removes duplicates and reads naturally as one coherent narrative, not a list of disconnected facts
- Stays concise
- Ends with a recording marker of the form [recorded:%s]

Reply with the updated memory only, no preamble.

Updated memory:`

const toolDescription = "Update the user's long-term memory with new information. " +
	"Use this tool when the user shares personal information, preferences, " +
	"or stable facts that should be remembered for future conversations."

func systemPrompt(memory string) string {
	if memory == "" {
		memory = "(empty)"
	}
	return fmt.Sprintf(systemTemplate, memory)
}

func mergePrompt(existing, newInfo, date string) string {
	if existing == "" {
		existing = "(empty)"
	}
	return fmt.Sprintf(mergeTemplate, existing, newInfo, date)
}
