package prompt

// CoverPrompt is sent with every cover image. The reply must be nothing but
// a {"title", "author"} JSON object so response.Parse can read it directly.
const CoverPrompt = `You are analyzing a photograph of a book cover.

TASK:
1. Identify the BOOK TITLE and the AUTHOR NAME from the text and visual elements on the cover.
2. If the cover is written in Urdu, return the title and author in Urdu script exactly as printed. Do not transliterate or translate them.
3. If the title has more than one word, write it in title case (capitalize the first letter of each word).
4. If you cannot read a field or are not confident about it, set that field to "` + UnableToUnderstand + `". Never guess, suggest, or invent a title or author.

Respond with ONLY a valid JSON object in exactly this format:
{"title": "Book Title Here", "author": "Author Name Here"}

Do not include explanations, markdown formatting, code fences, or any text outside the JSON object.`

// UnableToUnderstand is the value the model is told to use for unreadable fields
const UnableToUnderstand = "unable to understand"

// AgentInstruction is the system instruction of the ADK cover agent.
// ADK substitutes {placeholders} in instructions from session state, so the
// JSON shape lives in CoverPrompt (sent as user content) rather than here.
const AgentInstruction = `You read photographs of book covers and report the book's title and author.
Follow the user's output format exactly and never add commentary.`
