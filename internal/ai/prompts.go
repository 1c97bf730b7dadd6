package ai

import (
	"fmt"
	"strings"
)

const packingSystemPrompt = `You are an assistant that receives a list of items a user has already packed and suggests what other items they should pack.

- Do not repeat items that are already packed.
- If trip details (destination, length of stay, activities, weather, etc.) are provided, use them to make context-specific suggestions.
- Group your suggestions into clear categories (e.g., Essentials, Toiletries, Clothing, Electronics, Documents, Miscellaneous) and add more if the trip calls for them.
- Include every item that may be needed in each section; do not keep the list short.
- Always highlight commonly forgotten items in a dedicated "Commonly Forgotten" section.
- ALWAYS format your response in markdown with headings, bullet points, emojis and bolding so it renders well on a web page.
- ALWAYS have bullet points under each section.`

func recommendPrompt(in RecommendInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User: I have %s. Trip details are: %s.\n", itemList(in.PackedItems), in.TripSummary)
	b.WriteString("Please assist with my packing by recommending what to bring.\n")
	if in.Instructions != "" {
		fmt.Fprintf(&b, "\nYou have already given me a response of:\n%s\n\n", in.Previous)
		b.WriteString("It is good, but the items need more refinement. ")
		fmt.Fprintf(&b, "Keep the markdown and content the same, but implement these instructions: %s\n", in.Instructions)
	}
	return b.String()
}

// QuestionPrefix starts every chatbot question.
const QuestionPrefix = "Chatbot: "

func questionPrompt(in QuestionInput) string {
	var b strings.Builder
	b.WriteString(`You are an intelligent packing refinement assistant for the "Remember-2-Pack" app.

Your task:
1. Review the user's current packed items and trip summary.
2. Think briefly about what might be missing based on the type, duration and purpose of their trip
(consider weather, leisure time, formal events, business needs, hygiene, electronics, cultural context).
3. Based on this reasoning, ask ONE short, specific and natural follow-up question that helps fill a meaningful gap in their packing list.
4. Never repeat a previous question. Use short-term memory from this conversation only.
5. If there are no obvious gaps, do not push the user with questions, just respond with:
"Chatbot: Your packing list seems complete. You can start packing."

Always start your output with "Chatbot: ".

Context:
`)
	fmt.Fprintf(&b, "Packed Items: %s\n", itemList(in.PackedItems))
	fmt.Fprintf(&b, "Trip Summary: %s\n", in.TripSummary)
	if in.UserMessage != "" {
		fmt.Fprintf(&b, "Recent User Message: %s\n", in.UserMessage)
	}
	if h := in.History.String(); h != "" {
		fmt.Fprintf(&b, "Your Chat History:\n%s\n", h)
	}
	b.WriteString("\nThe question should be one to two sentences long.\n")
	return b.String()
}

// InstructionPrefix starts every instruction handed to the recommender.
const InstructionPrefix = "Instruction to Recommendation AI: "

func instructionPrompt(in InstructionInput) string {
	return fmt.Sprintf(`You are the assistant responsible for communicating user updates to the recommendation AI that generated their packing list.

Your task:
1. Review the conversation history between the user and the chatbot:
%s

2. The original AI recommendation (in markdown format) was:
%s

3. Here is the current user context:
- Packed Items: %s
- Trip Summary: %s

Your goal:
- Interpret what new intent or change the user expressed in their latest message.
- Summarize that intent in clear, actionable instructions directed at the recommendation AI.
- Be explicit about what needs to change in the packing list (add, remove, or modify items).
- Do not rephrase the conversation or chat; respond as if you were giving instructions to another AI system.

Respond in this format:
"Instruction to Recommendation AI: [concise, direct description of the change]"

Examples:
- Instruction to Recommendation AI: Add casual clothes and sneakers for a leisure day in New York.
- Instruction to Recommendation AI: Include an umbrella and waterproof shoes due to expected rain.
- Instruction to Recommendation AI: No changes needed, user confirmed list is complete.
`, in.History.String(), in.AIRecommendations, itemList(in.PackedItems), in.TripSummary)
}

func itemList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	if len(cleaned) == 0 {
		return "nothing packed yet"
	}
	return strings.Join(cleaned, ", ")
}
