package extraction

// taskExtractionPrompt asks the model for actionable tasks from one event.
const taskExtractionPrompt = `You are an AI assistant that extracts actionable tasks from various types of events and communications.

Event Type: %s
Event Content:
%s

Your job is to identify actionable tasks that require human attention or action. Look for:
1. Explicit requests for action
2. Problems that need resolution
3. Deadlines or time-sensitive items
4. Questions that require responses
5. Bugs or issues that need fixing
6. Features or improvements to implement

For each task you identify, determine:
- A clear, actionable title
- A descriptive explanation
- Priority level (1=low, 2=medium-low, 3=medium, 4=medium-high, 5=high)
- Estimated effort (quick/short/medium/long)
- Category (bug/feature/support/admin/communication)
- Whether it's truly actionable (not just informational)
- Your confidence in the extraction (0-1)

Be selective - only extract tasks that clearly require action. Don't create tasks for purely informational content.`

// priorityScoringPrompt asks the model to rate one task independently.
const priorityScoringPrompt = `You are an AI assistant that scores task priorities for a remote team.

Task Details:
Title: %s
Description: %s
Source: %s

%s

Score the priority from 1 (low) to 5 (high), considering urgency, impact, and
how time-sensitive the task appears.`
