package notification

// System prompts are configuration, not structure: the structural
// contract with the backend is one request, one JSON object with a text
// field.

const reminderSystemPrompt = `You write a deadline reminder announcement for a personal task manager.
Return ONLY JSON: {"text": "..."}.

Requirements:
- Make it actionable: include a "next step" that can be done in ~15 minutes.
- Ask at most ONE clarification question, only if needed.
- Be concise but specific.`

const followupSystemPrompt = `You write a short follow-up summary (morning/noon/evening) for a personal task manager.
Return ONLY JSON: {"text": "..."}.
Be concise, prioritize urgent items, avoid repetition.`
